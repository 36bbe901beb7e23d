package orchestrator

// Fixed responses. Every branch that cannot produce context returns one of these.
const (
	NoMemoriesMessage         = "No relevant memories yet. Answer from the conversation itself."
	ContextNotRequiredMessage = "No additional context is needed for this message. Respond naturally."
	BuildingContextMessage    = "This is a new conversation and the user's context is still being built. Greet them and respond naturally; relevant details will be remembered."
	FallbackMessage           = "Context is temporarily unavailable. Continue the conversation without it."

	NarrativeDirective = "[Directive: this is background about the user. Use it to personalise the reply without repeating it back.]"
)

const (
	ContextHeader   = "[Memory Context]"
	ContextDelim    = "---"
	FragmentJoiner  = "; "
	FragmentDivider = "\n"
)

// Balanced mode runs these alongside the message itself.
const (
	QueryIdentity = "user identity, preferences, and personal background"
	QueryRecent   = "recent activities, current projects, and ongoing plans"
)

// Narrative regeneration searches these angles.
var NarrativeQueries = []string{
	"who the user is and what they do",
	"the user's preferences, values and habits",
	"the user's current projects, goals and recent events",
	"people and relationships important to the user",
}

// Search limits.
const (
	LimitTargeted      = 5
	LimitBroad         = 10
	LimitComprehensive = 15
	LimitBalanced      = 5
	LimitNarrative     = 10
)

// Turn branches, used as metric labels.
const (
	BranchFast          = "fast"
	BranchBalanced      = "balanced"
	BranchComprehensive = "comprehensive"
	BranchNarrative     = "narrative"
	BranchWelcome       = "welcome"
	BranchNoContext     = "no_context"
	BranchStandard      = "standard"
	BranchPanic         = "panic"
)

const PromptBalanced = `You prepare background for an assistant that is about to answer the user.

User message: %q

Relevant memories about the user:
%s
Write 2-4 sentences stating only the facts above that help answer the message. Use the third person. Do not answer the message itself.`

const PromptNarrative = `Write a short third-person profile of the user from the memories below.
Cover who they are, what they care about and what they are working on. Keep it under 150 words. Only use facts listed.

Memories:
%s`

// Messages with only these words are not worth persisting.
var TrivialWords = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {}, "thanks": {}, "thank": {}, "you": {}, "thx": {},
	"ok": {}, "okay": {}, "k": {}, "yes": {}, "no": {}, "yep": {}, "nope": {}, "sure": {},
	"cool": {}, "great": {}, "nice": {}, "bye": {}, "good": {}, "morning": {}, "night": {},
	"evening": {}, "afternoon": {}, "lol": {}, "hmm": {}, "got": {}, "it": {}, "alright": {},
}
