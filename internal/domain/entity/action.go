package entity

import "fmt"

// Action is a single typed instruction the agent issues to the browser for
// one loop iteration. The variant set is closed: dispatch sites type-switch
// over it, so adding an action means updating every dispatcher.
type Action interface {
	ActionName() string
	isAction()
}

type Navigate struct {
	URL string
}

type TypeText struct {
	ElementID       int
	Text            string
	PressEnterAfter bool
}

type Click struct {
	ElementID int
}

// Summarize asks for the page's full visible text as the final result.
type Summarize struct{}

type Finish struct {
	Result string
}

func (Navigate) ActionName() string  { return "navigate" }
func (TypeText) ActionName() string  { return "type" }
func (Click) ActionName() string     { return "click" }
func (Summarize) ActionName() string { return "summarize" }
func (Finish) ActionName() string    { return "finish" }

func (Navigate) isAction()  {}
func (TypeText) isAction()  {}
func (Click) isAction()     {}
func (Summarize) isAction() {}
func (Finish) isAction()    {}

func (a Navigate) String() string { return fmt.Sprintf("navigate(url=%q)", a.URL) }
func (a TypeText) String() string {
	return fmt.Sprintf("type(id=%d, text=%q, press_enter_after=%t)", a.ElementID, a.Text, a.PressEnterAfter)
}
func (a Click) String() string     { return fmt.Sprintf("click(id=%d)", a.ElementID) }
func (a Summarize) String() string { return "summarize()" }
func (a Finish) String() string    { return fmt.Sprintf("finish(result=%q)", a.Result) }
