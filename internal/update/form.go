package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/opugacodez/tokei/internal/model"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDate
	fieldTime
	fieldCount
)

// formState is the add/edit task form. An empty editID means a new task.
type formState struct {
	Active  bool
	editID  string
	focused int
	inputs  []textinput.Model
}

func newFormState() formState {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
	}
	inputs[fieldTitle].Placeholder = "Title"
	inputs[fieldTitle].CharLimit = 120
	inputs[fieldDescription].Placeholder = "Description (optional)"
	inputs[fieldDate].Placeholder = model.DateLayout
	inputs[fieldDate].CharLimit = len(model.DateLayout)
	inputs[fieldTime].Placeholder = model.TimeLayout
	inputs[fieldTime].CharLimit = len(model.TimeLayout)
	return formState{inputs: inputs}
}

// openNew prefills date and time with the current moment, as the original
// creation form did.
func (f *formState) openNew(now time.Time) {
	f.Active = true
	f.editID = ""
	f.setValues("", "", now.Format(model.DateLayout), now.Format(model.TimeLayout))
	f.setFocus(fieldTitle)
}

func (f *formState) openEdit(task model.Task) {
	f.Active = true
	f.editID = task.ID
	f.setValues(task.Title, task.Description, task.Date, task.Time)
	f.setFocus(fieldTitle)
}

func (f *formState) close() {
	f.Active = false
	f.editID = ""
	for i := range f.inputs {
		f.inputs[i].Blur()
		f.inputs[i].SetValue("")
	}
}

func (f *formState) nextField() {
	f.setFocus((f.focused + 1) % fieldCount)
}

func (f *formState) prevField() {
	f.setFocus((f.focused + fieldCount - 1) % fieldCount)
}

func (f *formState) setFocus(idx int) {
	f.focused = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *formState) setValues(title, description, date, when string) {
	f.inputs[fieldTitle].SetValue(title)
	f.inputs[fieldDescription].SetValue(description)
	f.inputs[fieldDate].SetValue(date)
	f.inputs[fieldTime].SetValue(when)
}

func (f *formState) draft() model.Draft {
	return model.Draft{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Date:        f.inputs[fieldDate].Value(),
		Time:        f.inputs[fieldTime].Value(),
	}
}
