package session

import (
	"strings"

	"github.com/grovetools/focusguard/errors"
)

// Event is a canonical transition event.
type Event string

const (
	EventStart   Event = "start"
	EventWorking Event = "working"
	EventWaiting Event = "waiting"
	EventEnd     Event = "end"
)

// commonEvents are understood for every tool. They are the names the
// generic hook scripts send.
var commonEvents = map[string]Event{
	"session_start":     EventStart,
	"session_end":       EventEnd,
	"working":           EventWorking,
	"stop":              EventWaiting,
	"idle_prompt":       EventWaiting,
	"permission_prompt": EventWaiting,
}

// toolEvents holds each tool's native hook names, lower-cased.
var toolEvents = map[Tool]map[string]Event{
	ToolClaude: {
		"sessionstart":     EventStart,
		"sessionend":       EventEnd,
		"pretooluse":       EventWorking,
		"posttooluse":      EventWorking,
		"userpromptsubmit": EventWorking,
		"stop":             EventWaiting,
		"notification":     EventWaiting,
	},
	ToolGemini: {
		"sessionstart": EventStart,
		"sessionend":   EventEnd,
		"beforeagent":  EventWorking,
		"beforetool":   EventWorking,
		"aftertool":    EventWorking,
		"afteragent":   EventWaiting,
	},
	ToolCodex: {
		"agent-turn-complete": EventWaiting,
	},
}

// MapEvent translates a tool's hook name into the canonical alphabet.
func MapEvent(tool Tool, hook string) (Event, error) {
	name := strings.ToLower(strings.TrimSpace(hook))
	if table, ok := toolEvents[tool]; ok {
		if ev, ok := table[name]; ok {
			return ev, nil
		}
	} else {
		return "", errors.UnknownTool(string(tool))
	}
	if ev, ok := commonEvents[name]; ok {
		return ev, nil
	}
	return "", errors.UnknownEvent(string(tool), hook)
}

// Transition returns the state reached from a live state on ev.
// Ended sessions are handled by the registry's ended policy, not here.
func Transition(from State, ev Event) State {
	switch ev {
	case EventStart, EventWorking:
		return StateWorking
	case EventWaiting:
		return StateWaiting
	case EventEnd:
		return StateEnded
	default:
		return from
	}
}
