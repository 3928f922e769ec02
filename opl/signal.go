package opl

// Signal is the control-flow outcome of evaluating a statement. It travels
// beside the statement's value and never on the error channel.
type Signal int

const (
	SignalNone Signal = iota
	SignalBreak
	SignalContinue
	SignalReturn
)

func (s Signal) String() string {
	switch s {
	case SignalBreak:
		return "Break"
	case SignalContinue:
		return "Continue"
	case SignalReturn:
		return "Return"
	default:
		return "None"
	}
}
