package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campregistration/internal/domain"
)

func TestPrintAvailability(t *testing.T) {
	slots := domain.BuildAvailability([]*domain.ShiftRegistration{
		{MemberID: "a", MemberName: "Alice", Day: domain.Monday, ShiftTime: domain.Morning, Role: domain.RoleManager},
		{MemberID: "b", MemberName: "Bob", Day: domain.Monday, ShiftTime: domain.Morning, Role: domain.RoleVolunteer},
		{MemberID: "c", MemberName: "Carol", Day: domain.Friday, ShiftTime: domain.Evening, Role: domain.RoleVolunteer},
	})

	var buf bytes.Buffer
	require.NoError(t, printAvailability(&buf, slots))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[0], "REGISTRANTS")
	assert.Contains(t, lines[1], "Monday")
	assert.Contains(t, lines[1], "3/5")
	assert.Contains(t, lines[1], "Alice, Bob")
	assert.Contains(t, lines[10], "MISSING")
	assert.Contains(t, lines[10], "5/6")
}
