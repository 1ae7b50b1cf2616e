// internal/tui/forms.go
//
// Tiny form engine shared by the page views: a vertical ring of labeled
// fields (text inputs, textareas, single/multi selectors, buttons) with
// tab-cycled focus. Enter on a button yields the button label so the owning
// view can run the matching action.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fieldKind int

const (
	fieldInput fieldKind = iota
	fieldArea
	fieldSelect
	fieldMulti
	fieldButton
)

type formField struct {
	kind    fieldKind
	label   string
	input   textinput.Model
	area    textarea.Model
	options []string
	choice  int          // fieldSelect
	chosen  map[int]bool // fieldMulti
	cursor  int          // fieldMulti
}

func inputField(label, placeholder string) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	return formField{kind: fieldInput, label: label, input: in}
}

func passwordField(label string) formField {
	f := inputField(label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func areaField(label, placeholder string) formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.SetHeight(6)
	ta.CharLimit = 0
	return formField{kind: fieldArea, label: label, area: ta}
}

func selectField(label string, options []string) formField {
	return formField{kind: fieldSelect, label: label, options: options}
}

func multiField(label string, options []string) formField {
	return formField{kind: fieldMulti, label: label, options: options, chosen: map[int]bool{}}
}

func buttonField(label string) formField {
	return formField{kind: fieldButton, label: label}
}

// form is a focus ring over fields.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	f := form{fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(idx int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (idx + len(f.fields)) % len(f.fields)
	for i := range f.fields {
		switch f.fields[i].kind {
		case fieldInput:
			if i == f.focus {
				f.fields[i].input.Focus()
			} else {
				f.fields[i].input.Blur()
			}
		case fieldArea:
			if i == f.focus {
				f.fields[i].area.Focus()
			} else {
				f.fields[i].area.Blur()
			}
		}
	}
}

// typing reports whether the focused field consumes ordinary characters.
func (f *form) typing() bool {
	if len(f.fields) == 0 {
		return false
	}
	kind := f.fields[f.focus].kind
	return kind == fieldInput || kind == fieldArea
}

// value returns the text of the field with the given label.
func (f *form) value(label string) string {
	for i := range f.fields {
		if f.fields[i].label != label {
			continue
		}
		switch f.fields[i].kind {
		case fieldInput:
			return strings.TrimSpace(f.fields[i].input.Value())
		case fieldArea:
			return f.fields[i].area.Value()
		case fieldSelect:
			if len(f.fields[i].options) == 0 {
				return ""
			}
			return f.fields[i].options[f.fields[i].choice]
		}
	}
	return ""
}

// values returns the chosen options of the multi field with the given label.
func (f *form) values(label string) []string {
	for i := range f.fields {
		if f.fields[i].label == label && f.fields[i].kind == fieldMulti {
			out := []string{}
			for idx, option := range f.fields[i].options {
				if f.fields[i].chosen[idx] {
					out = append(out, option)
				}
			}
			return out
		}
	}
	return []string{}
}

func (f *form) setValue(label, value string) {
	for i := range f.fields {
		if f.fields[i].label != label {
			continue
		}
		switch f.fields[i].kind {
		case fieldInput:
			f.fields[i].input.SetValue(value)
		case fieldArea:
			f.fields[i].area.SetValue(value)
		case fieldSelect:
			for idx, option := range f.fields[i].options {
				if option == value {
					f.fields[i].choice = idx
				}
			}
		}
	}
}

func (f *form) setValues(label string, selected []string) {
	for i := range f.fields {
		if f.fields[i].label != label || f.fields[i].kind != fieldMulti {
			continue
		}
		f.fields[i].chosen = map[int]bool{}
		for idx, option := range f.fields[i].options {
			for _, s := range selected {
				if s == option {
					f.fields[i].chosen[idx] = true
				}
			}
		}
	}
}

// update routes a message to the focused field. The second return value is
// the label of a button activated by enter, or "".
func (f *form) update(msg tea.Msg) (tea.Cmd, string) {
	if len(f.fields) == 0 {
		return nil, ""
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		field := &f.fields[f.focus]
		switch key.String() {
		case "tab", "down":
			// Textareas own the down key for cursor movement.
			if field.kind == fieldArea && key.String() == "down" {
				break
			}
			f.setFocus(f.focus + 1)
			return nil, ""
		case "shift+tab", "up":
			if field.kind == fieldArea && key.String() == "up" {
				break
			}
			f.setFocus(f.focus - 1)
			return nil, ""
		case "left":
			switch field.kind {
			case fieldSelect:
				field.choice = (field.choice - 1 + len(field.options)) % len(field.options)
				return nil, ""
			case fieldMulti:
				if field.cursor > 0 {
					field.cursor--
				}
				return nil, ""
			}
		case "right":
			switch field.kind {
			case fieldSelect:
				field.choice = (field.choice + 1) % len(field.options)
				return nil, ""
			case fieldMulti:
				if field.cursor < len(field.options)-1 {
					field.cursor++
				}
				return nil, ""
			}
		case " ":
			if field.kind == fieldMulti {
				field.chosen[field.cursor] = !field.chosen[field.cursor]
				return nil, ""
			}
		case "enter":
			switch field.kind {
			case fieldButton:
				return nil, field.label
			case fieldInput, fieldSelect, fieldMulti:
				f.setFocus(f.focus + 1)
				return nil, ""
			}
		}
	}
	var cmd tea.Cmd
	switch f.fields[f.focus].kind {
	case fieldInput:
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	case fieldArea:
		f.fields[f.focus].area, cmd = f.fields[f.focus].area.Update(msg)
	}
	return cmd, ""
}

func (f *form) view(st styles) string {
	var rows []string
	for i := range f.fields {
		field := &f.fields[i]
		focused := i == f.focus
		label := st.meta.Render(field.label)
		if focused {
			label = st.label.Render(field.label)
		}
		switch field.kind {
		case fieldInput:
			rows = append(rows, fmt.Sprintf("%s\n%s", label, field.input.View()))
		case fieldArea:
			rows = append(rows, fmt.Sprintf("%s\n%s", label, field.area.View()))
		case fieldSelect:
			var opts []string
			for idx, option := range field.options {
				if idx == field.choice {
					opts = append(opts, st.selected.Render("("+option+")"))
				} else {
					opts = append(opts, st.meta.Render(" "+option+" "))
				}
			}
			rows = append(rows, fmt.Sprintf("%s  %s", label, strings.Join(opts, " ")))
		case fieldMulti:
			var opts []string
			for idx, option := range field.options {
				mark := "[ ]"
				if field.chosen[idx] {
					mark = "[x]"
				}
				cell := fmt.Sprintf("%s %s", mark, option)
				if focused && idx == field.cursor {
					cell = st.selected.Render(cell)
				}
				opts = append(opts, cell)
			}
			rows = append(rows, fmt.Sprintf("%s  %s", label, strings.Join(opts, "  ")))
		case fieldButton:
			button := fmt.Sprintf("[ %s ]", field.label)
			if focused {
				button = st.selected.Render(button)
			}
			rows = append(rows, button)
		}
	}
	return strings.Join(rows, "\n")
}
