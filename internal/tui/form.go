package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rupeewave/teller/internal/errors"
)

// fieldSpec declares one input of an operation form
type fieldSpec struct {
	key         string
	title       string
	placeholder string
	password    bool
	// options turns the field into a select; the first option is the
	// default
	options  []string
	validate func(string) error
}

// formResultMsg is the settled outcome of a submission. gen ties it to
// the submission that produced it so a late response from an abandoned
// call can never overwrite a newer one.
type formResultMsg struct {
	formID  string
	gen     int
	message string
	err     error
}

// operationForm runs the submit pipeline shared by every banking
// operation: idle, validating, submitting, settled. The loading flag is
// set and cleared identically for every form, and the error and success
// slots are mutually exclusive.
type operationForm struct {
	id          string
	title       string
	description string
	fields      []fieldSpec
	values      map[string]*string

	// crossValidate runs after field-level checks, in declaration
	// order, and short-circuits the call
	crossValidate func(get func(string) string) error

	// submit performs the gateway call and returns the success message
	submit func(ctx context.Context, get func(string) string) (string, error)

	// clearOnSuccess resets all inputs after a successful mutation;
	// enquiry-style forms keep their query inputs instead
	clearOnSuccess bool

	// summary renders a non-authoritative confirmation box from the
	// current inputs (transfer uses this)
	summary func(get func(string) string) string

	form       *huh.Form
	gen        int
	loading    bool
	spin       spinner.Model
	errMsg     string
	successMsg string
	styles     Styles
}

func newOperationForm(f operationForm) *operationForm {
	f.values = make(map[string]*string, len(f.fields))
	for _, spec := range f.fields {
		v := new(string)
		if len(spec.options) > 0 {
			*v = spec.options[0]
		}
		f.values[spec.key] = v
	}
	f.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	f.styles = DefaultStyles()
	f.rebuild()
	return &f
}

// value reads the current input for a key
func (f *operationForm) value(key string) string {
	if v, ok := f.values[key]; ok {
		return strings.TrimSpace(*v)
	}
	return ""
}

// rebuild creates a fresh huh form over the same value pointers. huh
// forms are single-shot, so every settle needs a new one.
func (f *operationForm) rebuild() {
	items := make([]huh.Field, 0, len(f.fields))
	for _, spec := range f.fields {
		v := f.values[spec.key]
		if len(spec.options) > 0 {
			opts := make([]huh.Option[string], 0, len(spec.options))
			for _, o := range spec.options {
				opts = append(opts, huh.NewOption(o, o))
			}
			items = append(items, huh.NewSelect[string]().
				Key(spec.key).
				Title(spec.title).
				Options(opts...).
				Value(v))
			continue
		}

		input := huh.NewInput().
			Key(spec.key).
			Title(spec.title).
			Placeholder(spec.placeholder).
			Value(v)
		if spec.password {
			input = input.EchoMode(huh.EchoModePassword)
		}
		if spec.validate != nil {
			validate := spec.validate
			input = input.Validate(func(s string) error {
				return validate(strings.TrimSpace(s))
			})
		}
		items = append(items, input)
	}

	f.form = huh.NewForm(huh.NewGroup(items...))
}

// Init starts the embedded huh form
func (f *operationForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update advances the pipeline. While a call is outstanding the form
// ignores input, so its own submit control is effectively disabled; a
// resubmission cannot start until the previous one settles.
func (f *operationForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formResultMsg:
		if msg.formID != f.id || msg.gen != f.gen {
			// Settled response from an abandoned submission.
			return nil
		}
		f.settle(msg.message, msg.err)
		return nil

	case spinner.TickMsg:
		if !f.loading {
			return nil
		}
		var cmd tea.Cmd
		f.spin, cmd = f.spin.Update(msg)
		return cmd
	}

	if f.loading {
		return nil
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f.startSubmit()
	}
	return cmd
}

// startSubmit clears previous messages, runs cross-field validation,
// and fires the gateway call. Validation failures never touch the
// gateway.
func (f *operationForm) startSubmit() tea.Cmd {
	f.errMsg = ""
	f.successMsg = ""

	if f.crossValidate != nil {
		if err := f.crossValidate(f.value); err != nil {
			f.errMsg = errors.UserMessage(err)
			f.rebuild()
			return f.form.Init()
		}
	}

	f.loading = true
	f.gen++

	gen := f.gen
	id := f.id
	submit := f.submit
	snapshot := f.snapshot()

	call := func() tea.Msg {
		message, err := submit(context.Background(), func(k string) string {
			return snapshot[k]
		})
		return formResultMsg{formID: id, gen: gen, message: message, err: err}
	}

	return tea.Batch(f.spin.Tick, call)
}

// settle applies the outcome of the current submission and re-arms the
// form. Exactly one of the two message slots ends up set.
func (f *operationForm) settle(message string, err error) {
	f.loading = false
	if err != nil {
		f.errMsg = errors.UserMessage(err)
		f.successMsg = ""
	} else {
		f.successMsg = message
		f.errMsg = ""
		if f.clearOnSuccess {
			for _, spec := range f.fields {
				if len(spec.options) > 0 {
					*f.values[spec.key] = spec.options[0]
				} else {
					*f.values[spec.key] = ""
				}
			}
		}
	}
	f.rebuild()
}

// reset clears inputs and messages when the screen is reopened. The
// generation counter survives so a response from a call started before
// the reset is still recognized as stale.
func (f *operationForm) reset() {
	for _, spec := range f.fields {
		if len(spec.options) > 0 {
			*f.values[spec.key] = spec.options[0]
		} else {
			*f.values[spec.key] = ""
		}
	}
	f.loading = false
	f.errMsg = ""
	f.successMsg = ""
	f.rebuild()
}

// snapshot freezes the inputs at submission time
func (f *operationForm) snapshot() map[string]string {
	snap := make(map[string]string, len(f.values))
	for k, v := range f.values {
		snap[k] = strings.TrimSpace(*v)
	}
	return snap
}

// View renders the form, its live summary, and the message slots
func (f *operationForm) View() string {
	var b strings.Builder

	b.WriteString(f.styles.Title.Render(f.title))
	b.WriteString("\n")
	if f.description != "" {
		b.WriteString(f.styles.Subtitle.Render(f.description))
		b.WriteString("\n")
	}

	if f.loading {
		b.WriteString("\n" + f.spin.View() + " Processing...\n")
	} else {
		b.WriteString(f.form.View())
	}

	if f.summary != nil {
		if box := f.summary(f.value); box != "" {
			b.WriteString("\n")
			b.WriteString(f.styles.Border.Render(box))
			b.WriteString("\n")
		}
	}

	if f.errMsg != "" {
		b.WriteString("\n" + f.styles.Error.Render("✗ "+f.errMsg) + "\n")
	}
	if f.successMsg != "" {
		b.WriteString("\n" + f.styles.Success.Render("✓ "+f.successMsg) + "\n")
	}

	return b.String()
}
