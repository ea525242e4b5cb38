package overlay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/riordanpawley/modalstack/internal/types"
)

// ErrInvalidOptions is returned when Options fail validation
var ErrInvalidOptions = errors.New("invalid overlay options")

// DismissFunc is handed to content factories so content can close itself.
// The returned command yields a DismissMsg for the owning overlay.
type DismissFunc func() tea.Cmd

// RenderFunc builds the content of an overlay once it is mounted
type RenderFunc func(dismiss DismissFunc) tea.Model

// Callback is a confirm callback. It runs outside the Update loop.
type Callback func(ctx context.Context) error

// Options configures a single overlay. Exactly one of Content, Render or Body
// provides the surface, except for confirm overlays which may use Title alone.
type Options struct {
	Title   string `validate:"max=200"`
	Body    string
	Content tea.Model `validate:"-"`
	Render  RenderFunc

	// nil means "use the configured default"
	DismissOnEsc          *bool
	DismissOnOutsideClick *bool

	// Opaque style tokens looked up in the portal's class table
	ClassName        string
	ContentClassName string
	TitleClassName   string

	// Fixed surface size; zero means sized to content
	Width  int `validate:"gte=0"`
	Height int `validate:"gte=0"`

	// Confirm only
	ConfirmButtonLabel string `validate:"max=40"`
	CancelButtonLabel  string `validate:"max=40"`
	OnConfirm          Callback
	OnCancel           Callback
}

// Bool returns a pointer to b, for the optional flags in Options
func Bool(b bool) *bool {
	return &b
}

// Record is an immutable view of one registered overlay. Listeners and
// lookups always receive copies.
type Record struct {
	ID      string
	Kind    types.Kind
	Seq     uint64
	Status  types.Status
	Options Options

	// resolved flags
	EscDismissible     bool
	OutsideDismissible bool
}

// Dismissible reports whether the record accepts the given ambient trigger
func (r Record) Dismissible(reason types.Reason) bool {
	if !r.Status.Live() {
		return false
	}
	switch reason {
	case types.ReasonEscapeKey:
		return r.EscDismissible
	case types.ReasonOutsideClick:
		return r.OutsideDismissible
	default:
		return true
	}
}

// Defaults holds the fallback values for unset Options flags
type Defaults struct {
	DismissOnEsc                 bool
	DismissOnOutsideClick        bool
	ConfirmDismissOnOutsideClick bool
	ConfirmButtonLabel           string
	CancelButtonLabel            string
}

// DefaultDefaults returns the built-in defaults
func DefaultDefaults() Defaults {
	return Defaults{
		DismissOnEsc:                 true,
		DismissOnOutsideClick:        true,
		ConfirmDismissOnOutsideClick: false,
		ConfirmButtonLabel:           "Confirm",
		CancelButtonLabel:            "Cancel",
	}
}

// newRecord validates opts and builds a record in the opening state
func newRecord(kind types.Kind, opts Options, d Defaults) (*Record, error) {
	if err := validateOptions(kind, opts); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:      uuid.NewString(),
		Kind:    kind,
		Status:  types.StatusOpening,
		Options: opts,
	}

	rec.EscDismissible = d.DismissOnEsc
	if opts.DismissOnEsc != nil {
		rec.EscDismissible = *opts.DismissOnEsc
	}

	rec.OutsideDismissible = d.DismissOnOutsideClick
	if kind == types.KindConfirm {
		rec.OutsideDismissible = d.ConfirmDismissOnOutsideClick
	}
	if opts.DismissOnOutsideClick != nil {
		rec.OutsideDismissible = *opts.DismissOnOutsideClick
	}

	if kind == types.KindConfirm {
		if rec.Options.ConfirmButtonLabel == "" {
			rec.Options.ConfirmButtonLabel = d.ConfirmButtonLabel
		}
		if rec.Options.CancelButtonLabel == "" {
			rec.Options.CancelButtonLabel = d.CancelButtonLabel
		}
	}

	return rec, nil
}

var optionsValidator = validator.New()

func validateOptions(kind types.Kind, opts Options) error {
	if err := optionsValidator.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	sources := 0
	if opts.Content != nil {
		sources++
	}
	if opts.Render != nil {
		sources++
	}
	if opts.Body != "" {
		sources++
	}

	switch kind {
	case types.KindConfirm:
		if opts.Content != nil || opts.Render != nil {
			return fmt.Errorf("%w: confirm overlays render their own content", ErrInvalidOptions)
		}
		if opts.Title == "" && opts.Body == "" {
			return fmt.Errorf("%w: confirm overlays need a title or body", ErrInvalidOptions)
		}
	case types.KindDialog, types.KindDrawer:
		if sources != 1 {
			return fmt.Errorf("%w: exactly one of Content, Render or Body is required", ErrInvalidOptions)
		}
		if opts.OnConfirm != nil || opts.OnCancel != nil {
			return fmt.Errorf("%w: %s overlays have no confirm callbacks", ErrInvalidOptions, kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidOptions, kind)
	}

	return nil
}
