package writer

import (
	"fmt"
	"strings"
)

// ConsoleResolver renders one human readable message per event, e.g.
//
//	Action 'UserService::Login' has started. Parameters: [{}]   args: ["user=jane"]
type ConsoleResolver struct{}

var _ ActionLogResolver = ConsoleResolver{}

// OnStart appends the non-sensitive parameters as "name=value" pairs.
func (ConsoleResolver) OnStart(c StartContext) ActionLog {
	if !logsParameters(c) {
		return ActionLog{Message: startedMessage(c.Action), Arguments: []any{}}
	}

	params := visibleParameters(c)
	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = fmt.Sprintf("%s=%v", p.Key, p.Value)
	}
	return ActionLog{
		Message:   startedMessage(c.Action) + " Parameters: [{}]",
		Arguments: []any{strings.Join(pairs, ", ")},
	}
}

// OnFinish appends the return value unless the method is void or the value was ignored.
func (ConsoleResolver) OnFinish(c FinishContext) ActionLog {
	if !logsReturnValue(c) {
		return ActionLog{Message: finishedMessage(c.Action), Arguments: []any{}}
	}
	return ActionLog{
		Message:   finishedMessage(c.Action) + " Return value: [{}]",
		Arguments: []any{c.ReturnValue},
	}
}

// OnThrow carries the error as the sole argument.
func (ConsoleResolver) OnThrow(c ThrowContext) ActionLog {
	return ActionLog{Message: thrownMessage(c.Action), Arguments: []any{c.Err}}
}
