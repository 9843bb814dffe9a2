package payment

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Messages collects user facing notices during one request.
type Messages struct {
	items []Message
}

func (m *Messages) Add(level Level, text string) {
	m.items = append(m.items, Message{Level: level, Text: text})
}

func (m *Messages) Info(text string)    { m.Add(LevelInfo, text) }
func (m *Messages) Success(text string) { m.Add(LevelSuccess, text) }
func (m *Messages) Warning(text string) { m.Add(LevelWarning, text) }
func (m *Messages) Error(text string)   { m.Add(LevelError, text) }

func (m *Messages) All() []Message {
	return append([]Message(nil), m.items...)
}

func (m *Messages) Len() int { return len(m.items) }

func (m *Messages) HasErrors() bool {
	for _, it := range m.items {
		if it.Level == LevelError {
			return true
		}
	}
	return false
}
