// Package ticket assembles Freshservice tickets from a subject and a message.
package ticket

import (
	"os"
	"strings"

	"golang.org/x/net/html"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/integrations/freshservice"
)

// Freshservice priority and status codes used for new tickets.
const (
	PriorityLow = 1
	StatusOpen  = 2
)

// Defaults fills the ticket fields a caller does not set.
type Defaults struct {
	Email        string
	DepartmentID int64
	GroupID      int64
	Category     string
	Subject      string
	WorkspaceID  int64
}

// Build creates a ticket. The subject is trimmed and falls back to
// d.Subject. message is read from disk when it names an existing file and
// used verbatim otherwise. The text is sent preformatted so report layout
// survives. An empty description is an INVALID_INPUT error.
func Build(subject, message string, d Defaults) (freshservice.Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = d.Subject
	}
	if subject == "" {
		return freshservice.Ticket{}, errs.New(errs.ErrCodeInvalidInput, "missing ticket subject")
	}

	body, err := readMessage(message)
	if err != nil {
		return freshservice.Ticket{}, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return freshservice.Ticket{}, errs.New(errs.ErrCodeInvalidInput, "missing ticket content: description")
	}

	t := freshservice.Ticket{
		Subject:      subject,
		Description:  "<pre>" + html.EscapeString(body) + "</pre>",
		Email:        d.Email,
		Priority:     PriorityLow,
		Status:       StatusOpen,
		DepartmentID: d.DepartmentID,
		GroupID:      d.GroupID,
		Category:     d.Category,
		WorkspaceID:  d.WorkspaceID,
	}
	if d.Email != "" {
		t.CCEmails = []string{d.Email}
	}
	return t, nil
}

func readMessage(message string) (string, error) {
	path := strings.TrimSpace(message)
	if path == "" {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return message, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "read message %s", path)
	}
	return string(data), nil
}
