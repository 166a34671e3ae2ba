package sugar

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModel lets a bubbletea model carry an error out of the program so
// the caller can exit non-zero instead of rendering it.
type ErrorModel interface {
	tea.Model
	GetError() error
}

func RunProgramWithErrors(model ErrorModel) (resultModel tea.Model, err error) {
	resultModel, teaErr := tea.NewProgram(model).Run()
	if errorModel, ok := resultModel.(ErrorModel); ok {
		err = errorModel.GetError()
	}

	// Bubble Tea errors override custom errors
	if teaErr != nil {
		err = teaErr
	}

	return
}
