package service

import (
	"agent_academy_backend/internal/util"
	"context"
	"strings"
)

// cannedReply pairs trigger keywords with a Socratic-style answer. Rules are
// checked in order; the first keyword hit wins.
type cannedReply struct {
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"variable"},
		reply:    "Good question, Agent. Think of a variable as a labeled gadget case: the label is the name, and whatever you store inside is the value. What value does your mission need to keep track of, and what would you call it?",
	},
	{
		keywords: []string{"error", "not working"},
		reply:    "Every field agent hits obstacles — error messages are intel, not failure. Read the message from the bottom up: which line number does it point to, and what was your code trying to do right there?",
	},
	{
		keywords: []string{"loop", "for", "while"},
		reply:    "Loops are how an agent sweeps a whole area without retracing steps by hand: the same instructions repeat for each item. How many times does your mission need to repeat, and what should change on each pass?",
	},
	{
		keywords: []string{"help", "stuck"},
		reply:    "Stay calm, Agent — every mission can be broken into smaller objectives. What is the very next small step your code needs to take? Try describing it in plain words first, then translate that one step into code.",
	},
}

const genericReply = "Interesting thinking, Agent. Before I say more: what have you tried so far, and what did you expect to happen? Walk me through your code line by line and the answer may reveal itself."

// distressPhrases trigger the flag-for-teacher heuristic. Scanned against the
// student's original message, never the generated reply.
var distressPhrases = []string{
	"frustrated",
	"give up",
	"giving up",
	"too hard",
	"impossible",
	"i can't do this",
	"i cant do this",
	"i quit",
	"hate this",
	"want to stop",
}

// SimulatedResponder is the rule-based fallback tutor. Deterministic for
// identical input, used whenever no real backend is configured or one errors.
type SimulatedResponder struct{}

func NewSimulatedResponder() *SimulatedResponder {
	return &SimulatedResponder{}
}

func (r *SimulatedResponder) Name() string { return util.AIProviderSimulated }

func (r *SimulatedResponder) Respond(ctx context.Context, req ResponderRequest) (string, error) {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return r.Reply(req.Messages[i].Content), nil
		}
	}
	return genericReply, nil
}

// Reply picks the canned response for a student message by case-insensitive
// keyword match against the priority list.
func (r *SimulatedResponder) Reply(studentMessage string) string {
	lower := strings.ToLower(studentMessage)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.reply
			}
		}
	}
	return genericReply
}

// ShouldFlagForTeacher reports whether the student's message contains
// distress language that a teacher should see.
func (r *SimulatedResponder) ShouldFlagForTeacher(studentMessage string) bool {
	lower := strings.ToLower(studentMessage)
	for _, phrase := range distressPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
