package form

// Region is a display area the controller can show, hide and fill.
type Region interface {
	Show()
	Hide()
	SetContent(text string)
}

// Control is the submit control.
type Control interface {
	SetDisabled(disabled bool)
}

// Values is the raw content of the form fields.
type Values struct {
	X         string
	Y         string
	Operation string
}

// Source reads the current form values.
type Source interface {
	Values() Values
}

// Elements are the UI handles a Controller drives. They are acquired once by
// the surface that owns them and handed to NewController.
type Elements struct {
	Form        Source
	ResultPanel Region
	ErrorPanel  Region
	Loading     Region
	Submit      Control
}
