package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
)

type stubDriver struct {
	inputs       []string
	textAreas    []string
	selectIdx    []int
	multiIdx     [][]int
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	textPos      int
	selectPos    int
	multiPos     int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.selects = append(s.selects, cfg)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type abortingDriver struct {
	stubDriver
}

func (a *abortingDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}

func rsvpBuilder() *form.Builder {
	return form.NewBuilder(nil).
		AddField("name", field.Config{Type: field.TypeFreeText, Title: "Name", Required: true}).
		AddField("notes", field.Config{Type: field.TypeMultilineText, Title: "Notes"}).
		AddField("attending", field.Config{
			Type:     field.TypeExclusiveChoiceSet,
			Title:    "Attending",
			Required: true,
			Options:  []string{"Yes", "No", "Maybe"},
		}).
		AddField("session", field.Config{
			Type:    field.TypeSingleChoiceList,
			Title:   "Session",
			Options: []string{"Morning", "Afternoon"},
		}).
		AddField("meals", field.Config{
			Type:    field.TypeMultiChoiceSet,
			Title:   "Meals",
			Options: []string{"Breakfast", "Lunch", "Dinner"},
		})
}

func TestSession_FillDrivesInteractionPath(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada"},
		textAreas: []string{"Vegetarian"},
		selectIdx: []int{0, 1},
		multiIdx:  [][]int{{2, 0}},
	}
	b := rsvpBuilder()
	var announced []bool
	b.SetOnFormValidationChanged(func(valid bool) { announced = append(announced, valid) })

	if err := NewSession(WithDriver(driver)).Fill(context.Background(), b); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"name":      "Ada",
		"notes":     "Vegetarian",
		"attending": "Yes",
		"session":   "Afternoon",
		"meals":     []string{"Breakfast", "Dinner"},
	}
	if diff := cmp.Diff(want, b.FormData()); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
	if !b.ValidateForm() {
		t.Fatalf("expected valid form after filling")
	}
	if len(announced) == 0 || !announced[len(announced)-1] {
		t.Fatalf("expected the aggregate to be announced valid, got %v", announced)
	}
	if got := driver.selects[1].Message; got != "Session" {
		t.Fatalf("picker should be titled by the field, got %q", got)
	}
}

func TestSession_RepromptsInvalidRequiredField(t *testing.T) {
	driver := &stubDriver{inputs: []string{"   ", "Grace"}}
	b := form.NewBuilder(nil).
		AddField("name", field.Config{Type: field.TypeFreeText, Title: "Name", Required: true})

	if err := NewSession(WithDriver(driver)).Fill(context.Background(), b); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff([]string{"Name is required"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if v, _ := b.FieldValue("name"); v.Text() != "Grace" {
		t.Fatalf("unexpected value %q", v.Text())
	}
}

func TestSession_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	b := form.NewBuilder(nil).
		AddField("name", field.Config{Type: field.TypeFreeText, Title: "Name", Required: true})

	err := NewSession(WithDriver(driver), WithMaxAttempts(2)).Fill(context.Background(), b)
	if !errors.Is(err, ErrStillInvalid) {
		t.Fatalf("expected ErrStillInvalid, got %v", err)
	}
}

func TestSession_MultiSelectTogglesOnlyDifferences(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{{1, 2}}}
	b := form.NewBuilder(nil).AddField("meals", field.Config{
		Type:    field.TypeMultiChoiceSet,
		Options: []string{"Breakfast", "Lunch", "Dinner"},
	})
	b.SetFieldValue("meals", field.ItemsValue("Breakfast", "Lunch"))

	f, _ := b.Field("meals")
	var values []any
	f.SetDelegate(field.DelegateFuncs{
		ValueChanged: func(_ string, v field.Value) { values = append(values, v.Any()) },
	})

	if err := NewSession(WithDriver(driver)).FillField(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := []any{
		[]string{"Lunch"},
		[]string{"Lunch", "Dinner"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("toggle sequence mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, driver.selects[0].Defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_SkipsDisabledAndEmptyChoices(t *testing.T) {
	driver := &stubDriver{}
	b := form.NewBuilder(nil).
		AddField("locked", field.Config{Type: field.TypeFreeText, Title: "Locked", Required: true}).
		AddField("empty", field.Config{Type: field.TypeExclusiveChoiceSet, Title: "Empty"})
	locked, _ := b.Field("locked")
	locked.SetEnabled(false)

	if err := NewSession(WithDriver(driver)).Fill(context.Background(), b); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff([]string{"Empty: no options available"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ShowsFieldErrorBeforePrompting(t *testing.T) {
	driver := &stubDriver{inputs: []string{"ada@example.com"}}
	b := form.NewBuilder(nil).
		AddField("email", field.Config{Type: field.TypeFreeText, Title: "Email"})
	b.SetFieldError("email", "already registered")

	if err := NewSession(WithDriver(driver)).Fill(context.Background(), b); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff([]string{"Email: already registered"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AbortPropagates(t *testing.T) {
	b := form.NewBuilder(nil).
		AddField("name", field.Config{Type: field.TypeFreeText, Title: "Name"})

	err := NewSession(WithDriver(&abortingDriver{})).Fill(context.Background(), b)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestIndicesHelpers(t *testing.T) {
	options := []string{"a", "b", "c"}
	if diff := cmp.Diff([]int{0, 2}, indicesOf(options, []string{"c", "a", "z"})); diff != "" {
		t.Fatalf("indicesOf mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, defaultsFromIndices(options, []int{1, 7, -1})); diff != "" {
		t.Fatalf("defaultsFromIndices mismatch (-want +got):\n%s", diff)
	}
}
