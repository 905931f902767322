package writer

// StructuredResolver keeps messages short and emits parameters and the return value as
// separate key-value pairs, suited to JSON log pipelines.
type StructuredResolver struct{}

var _ ActionLogResolver = StructuredResolver{}

// OnStart emits one pair per non-sensitive parameter, keyed by parameter name.
func (StructuredResolver) OnStart(c StartContext) ActionLog {
	args := []any{}
	if logsParameters(c) {
		for _, p := range visibleParameters(c) {
			args = append(args, p)
		}
	}
	return ActionLog{Message: startedMessage(c.Action), Arguments: args}
}

// OnFinish emits the return value under ReturnValueKey unless it is void, nil or ignored.
func (StructuredResolver) OnFinish(c FinishContext) ActionLog {
	if !logsReturnValue(c) || isNil(c.ReturnValue) {
		return ActionLog{Message: finishedMessage(c.Action), Arguments: []any{}}
	}
	return ActionLog{
		Message:   finishedMessage(c.Action),
		Arguments: []any{KeyValue{Key: ReturnValueKey, Value: c.ReturnValue}},
	}
}

// OnThrow carries the error as the sole argument.
func (StructuredResolver) OnThrow(c ThrowContext) ActionLog {
	return ActionLog{Message: thrownMessage(c.Action), Arguments: []any{c.Err}}
}
