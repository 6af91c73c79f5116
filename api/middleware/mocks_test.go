package middleware

import "sync"

type logEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// mockLogger records every call
type mockLogger struct {
	mu   sync.Mutex
	logs []logEntry
}

func (m *mockLogger) record(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, logEntry{Level: level, Message: msg, Fields: fields})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record("DEBUG", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record("INFO", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record("WARN", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record("ERROR", msg, fields) }

func (m *mockLogger) last() logEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs[len(m.logs)-1]
}
