package schema

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/field"
)

func loadEventsSpec(t *testing.T) Document {
	t.Helper()
	data, err := os.ReadFile("testdata/events.openapi.yaml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return MustNewDocument(SourceFromFile("testdata/events.openapi.yaml"), data)
}

func TestLoadOpenAPI_RequestBodyFields(t *testing.T) {
	def, err := NewLoader().LoadOpenAPI(context.Background(), loadEventsSpec(t), "createRSVP")
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}
	if def.Title != "RSVP to an event" {
		t.Fatalf("title mismatch: %q", def.Title)
	}

	type summary struct {
		ID       string
		Type     field.Type
		Title    string
		Required bool
		Options  []string
	}
	var got []summary
	for _, fd := range def.Fields {
		got = append(got, summary{fd.ID, fd.Config.Type, fd.Config.Title, fd.Config.Required, fd.Config.Options})
	}
	want := []summary{
		{"name", field.TypeFreeText, "Full name", true, nil},
		{"attending", field.TypeExclusiveChoiceSet, "Attending", true, []string{"yes", "no", "maybe"}},
		{"meals", field.TypeMultiChoiceSet, "Meals", false, []string{"breakfast", "lunch", "dinner"}},
		{"notes", field.TypeMultilineText, "Notes", false, nil},
		{"plus_one", field.TypeExclusiveChoiceSet, "Plus One", false, []string{"true", "false"}},
		{"session", field.TypeSingleChoiceList, "Session", false, []string{"morning", "afternoon", "evening", "late"}},
		{"ticket_code", field.TypeFreeText, "Ticket Code", false, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	name, _ := def.Field("name")
	if name.Config.MaxLength != 60 {
		t.Fatalf("maxLength not carried: %d", name.Config.MaxLength)
	}
	session, _ := def.Field("session")
	if option, ok := session.Default.Selection(); !ok || option != "morning" {
		t.Fatalf("session default mismatch: %v", session.Default)
	}
	ticket, _ := def.Field("ticket_code")
	if !ticket.Disabled || ticket.Config.Hint != "Printed on your ticket." {
		t.Fatalf("ticket_code extensions not applied: %+v", ticket)
	}
}

func TestLoadOpenAPI_FallbackOperationID(t *testing.T) {
	_, err := NewLoader().LoadOpenAPI(context.Background(), loadEventsSpec(t), "get:/events")
	if err == nil {
		t.Fatalf("expected error for operation without request body")
	}
	if errors.Is(err, ErrFormNotFound) {
		t.Fatalf("operation should be found by its derived id: %v", err)
	}
}

func TestLoadOpenAPI_UnknownOperation(t *testing.T) {
	_, err := NewLoader().LoadOpenAPI(context.Background(), loadEventsSpec(t), "deleteEvent")
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestLoadOpenAPI_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().LoadOpenAPI(ctx, loadEventsSpec(t), "createRSVP"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHumanize(t *testing.T) {
	if got := humanize("ticket_code"); got != "Ticket Code" {
		t.Fatalf("got %q", got)
	}
}
