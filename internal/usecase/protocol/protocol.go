// Package protocol interprets raw model output as a typed action. Pure
// parsing and validation; no network or browser dependency.
package protocol

import (
	"encoding/json"
	"math"
	"regexp"

	"browsemind/internal/domain/apperr"
	"browsemind/internal/domain/entity"
)

// The model is instructed to wrap its decision in a ```json fenced block.
var fenceRe = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")

// DefaultFinishResult is used when a finish action carries no result arg.
const DefaultFinishResult = "Task finished."

// ParseAction converts a free-text model response into exactly one Action,
// or a named protocol error:
//
//	MISSING_PAYLOAD   no fenced block found
//	MALFORMED_PAYLOAD fenced block is not valid JSON
//	INVALID_SHAPE     payload is not an object with a string "action"
//	UNKNOWN_ACTION    action name outside the closed set
//	INVALID_ARGS      required args missing or mistyped
func ParseAction(raw string) (entity.Action, error) {
	m := fenceRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, apperr.Protocol(apperr.CodeMissingPayload, "no ```json block in model response")
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
		// Valid JSON that is not an object is a shape problem, not a
		// parse problem.
		var probe any
		if json.Unmarshal([]byte(m[1]), &probe) == nil {
			return nil, apperr.Protocol(apperr.CodeInvalidShape, "payload is not a JSON object")
		}
		return nil, apperr.Protocol(apperr.CodeMalformedPayload, "payload is not valid JSON: %v", err)
	}

	var name string
	if rawName, ok := payload["action"]; !ok || json.Unmarshal(rawName, &name) != nil || name == "" {
		return nil, apperr.Protocol(apperr.CodeInvalidShape, "payload has no string \"action\" field")
	}

	args := newArgs(payload["args"])

	switch name {
	case "navigate":
		url, err := args.str("url", required)
		if err != nil {
			return nil, err
		}
		return entity.Navigate{URL: url}, nil

	case "type":
		id, err := args.elementID()
		if err != nil {
			return nil, err
		}
		text, err := args.str("text", required)
		if err != nil {
			return nil, err
		}
		pressEnter, err := args.boolOr("press_enter_after", false)
		if err != nil {
			return nil, err
		}
		return entity.TypeText{ElementID: id, Text: text, PressEnterAfter: pressEnter}, nil

	case "click":
		id, err := args.elementID()
		if err != nil {
			return nil, err
		}
		return entity.Click{ElementID: id}, nil

	case "summarize":
		return entity.Summarize{}, nil

	case "finish":
		result, err := args.str("result", optional)
		if err != nil {
			return nil, err
		}
		if result == "" {
			result = DefaultFinishResult
		}
		return entity.Finish{Result: result}, nil

	default:
		return nil, apperr.Protocol(apperr.CodeUnknownAction, "unknown action %q", name)
	}
}

const (
	required = true
	optional = false
)

type argSet struct {
	m map[string]any
}

func newArgs(raw json.RawMessage) argSet {
	m := map[string]any{}
	if len(raw) > 0 {
		// A non-object args value leaves the set empty; the per-field
		// checks below then report what is missing.
		_ = json.Unmarshal(raw, &m)
	}
	return argSet{m: m}
}

func (a argSet) str(key string, req bool) (string, error) {
	v, ok := a.m[key]
	if !ok {
		if req {
			return "", apperr.Protocol(apperr.CodeInvalidArgs, "missing required arg %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperr.Protocol(apperr.CodeInvalidArgs, "arg %q must be a string", key)
	}
	return s, nil
}

func (a argSet) boolOr(key string, def bool) (bool, error) {
	v, ok := a.m[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, apperr.Protocol(apperr.CodeInvalidArgs, "arg %q must be a boolean", key)
	}
	return b, nil
}

// elementID reads the "id" arg as a positive integer. JSON numbers decode as
// float64; fractional values are rejected rather than truncated.
func (a argSet) elementID() (int, error) {
	v, ok := a.m["id"]
	if !ok {
		return 0, apperr.Protocol(apperr.CodeInvalidArgs, "missing required arg \"id\"")
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, apperr.Protocol(apperr.CodeInvalidArgs, "arg \"id\" must be an integer")
	}
	id := int(f)
	if id <= 0 {
		return 0, apperr.Protocol(apperr.CodeInvalidArgs, "arg \"id\" must be positive, got %d", id)
	}
	return id, nil
}
