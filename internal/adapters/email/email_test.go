package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campregistration/internal/domain"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "kitchen@camp.test", "Camp Kitchen", discardLogger())

	err := m.Send(context.Background(), "alice@camp.test", "Subject", "<p>hi</p>", "")
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "Camp Kitchen <kitchen@camp.test>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"alice@camp.test"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Subject", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_Send_Error(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	m := newSESMailer(client, "kitchen@camp.test", "", discardLogger())

	err := m.Send(context.Background(), "alice@camp.test", "s", "", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Equal(t, "kitchen@camp.test", aws.ToString(client.input.Source))
}

func TestNewMailer_Providers(t *testing.T) {
	assert.IsType(t, &noopMailer{}, NewMailer(MailerConfig{Provider: "noop"}, discardLogger()))
	assert.IsType(t, &noopMailer{}, NewMailer(MailerConfig{Provider: "carrier-pigeon"}, discardLogger()))
	assert.IsType(t, &sesMailer{}, NewMailer(MailerConfig{
		Provider:    "ses",
		FromAddress: "kitchen@camp.test",
		SES:         SESConfig{Region: "eu-west-1", AccessKeyID: "AK", SecretAccessKey: "SK"},
	}, discardLogger()))
}

func TestTemplateRenderer_ShiftConfirmation(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	tests := []struct {
		name        string
		data        *domain.ShiftConfirmationEmailData
		wantText    []string
		notWantText []string
	}{
		{
			name:        "volunteer",
			data:        &domain.ShiftConfirmationEmailData{Name: "Bob", Day: "Monday", ShiftTime: "morning", Role: "volunteer"},
			wantText:    []string{"Hi Bob", "volunteer for the Monday morning kitchen shift"},
			notWantText: []string{"shift manager"},
		},
		{
			name:     "manager without name",
			data:     &domain.ShiftConfirmationEmailData{Day: "Friday", ShiftTime: "evening", Role: "manager"},
			wantText: []string{"Hi there", "As shift manager"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html, text, err := r.Render("shift_confirmation", tt.data)
			require.NoError(t, err)
			assert.Equal(t, "Kitchen shift confirmed: "+tt.data.Day+" "+tt.data.ShiftTime, subject)
			assert.Contains(t, html, "<strong>"+tt.data.Role+"</strong>")
			for _, s := range tt.wantText {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.notWantText {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestTemplateRenderer_HTMLEscapesName(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, html, _, err := r.Render("shift_confirmation", &domain.ShiftConfirmationEmailData{
		Name: "<script>", Day: "Monday", ShiftTime: "morning", Role: "volunteer",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, _, _, err = r.Render("welcome", nil)
	require.Error(t, err)
}
