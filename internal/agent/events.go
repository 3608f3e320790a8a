package agent

// EventKind 步骤事件类型
type EventKind string

const (
	EventStepStart   EventKind = "step_start"
	EventThought     EventKind = "thought"
	EventToolCall    EventKind = "tool_call"
	EventObservation EventKind = "observation"
	EventAnswer      EventKind = "answer"
	EventStuck       EventKind = "stuck"
	EventExhausted   EventKind = "exhausted"
)

// Event 推理过程中的中间事件，供 CLI 打印进度
type Event struct {
	RunID       string    `json:"run_id"`
	Kind        EventKind `json:"kind"`
	Step        int       `json:"step"`
	Thought     string    `json:"thought,omitempty"`
	Tool        string    `json:"tool,omitempty"`
	Input       string    `json:"input,omitempty"`
	Observation string    `json:"observation,omitempty"`
	Answer      string    `json:"answer,omitempty"`
}

// Observer 在 Run 所在 goroutine 中同步调用
type Observer func(Event)
