package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ToolStats represents statistics for a single tool
type ToolStats struct {
	Name                 string        `json:"name"`
	CallCount            int           `json:"call_count"`
	ErrorCount           int           `json:"error_count"`
	MatchesReported      int           `json:"matches_reported"`
	TotalExecutionTime   time.Duration `json:"total_execution_time"`
	AverageExecutionTime time.Duration `json:"average_execution_time"`
	LastUsed             time.Time     `json:"last_used"`
}

// SessionStats represents statistics for the current session
type SessionStats struct {
	StartTime time.Time             `json:"start_time"`
	Tools     map[string]*ToolStats `json:"tools"`
}

// PersistentStats represents statistics persisted across all sessions
type PersistentStats struct {
	FirstRecorded time.Time             `json:"first_recorded"`
	LastUpdated   time.Time             `json:"last_updated"`
	Tools         map[string]*ToolStats `json:"tools"`
}

// StatsManager manages tool usage statistics
type StatsManager struct {
	sessionStats    *SessionStats
	persistentStats *PersistentStats
	statsFilePath   string
	mutex           sync.RWMutex
}

// NewStatsManager creates a StatsManager backed by statsFilePath, loading
// earlier totals if the file exists.
func NewStatsManager(statsFilePath string) (*StatsManager, error) {
	now := time.Now()
	manager := &StatsManager{
		sessionStats: &SessionStats{
			StartTime: now,
			Tools:     make(map[string]*ToolStats),
		},
		persistentStats: &PersistentStats{
			FirstRecorded: now,
			LastUpdated:   now,
			Tools:         make(map[string]*ToolStats),
		},
		statsFilePath: statsFilePath,
	}

	dir := filepath.Dir(statsFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for stats file: %w", err)
	}

	data, err := os.ReadFile(statsFilePath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, manager.persistentStats); err != nil {
			return nil, fmt.Errorf("failed to parse stats file: %w", err)
		}
		if manager.persistentStats.Tools == nil {
			manager.persistentStats.Tools = make(map[string]*ToolStats)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read stats file: %w", err)
	}

	return manager, nil
}

// RecordToolUsage records one call of a tool and saves the totals.
func (m *StatsManager) RecordToolUsage(toolName string, executionTime time.Duration, failed bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	for _, tools := range []map[string]*ToolStats{m.sessionStats.Tools, m.persistentStats.Tools} {
		tool := toolEntry(tools, toolName)
		tool.CallCount++
		if failed {
			tool.ErrorCount++
		}
		tool.TotalExecutionTime += executionTime
		tool.AverageExecutionTime = tool.TotalExecutionTime / time.Duration(tool.CallCount)
		tool.LastUsed = now
	}
	m.persistentStats.LastUpdated = now

	return m.savePersistentStats()
}

// RecordMatches adds n reported matches to a tool's totals. The counts are
// saved with the next recorded call.
func (m *StatsManager) RecordMatches(toolName string, n int) {
	if n <= 0 {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	toolEntry(m.sessionStats.Tools, toolName).MatchesReported += n
	toolEntry(m.persistentStats.Tools, toolName).MatchesReported += n
}

func toolEntry(tools map[string]*ToolStats, name string) *ToolStats {
	tool, ok := tools[name]
	if !ok {
		tool = &ToolStats{Name: name}
		tools[name] = tool
	}
	return tool
}

// GetSessionStats returns a copy of the statistics for the current session
func (m *StatsManager) GetSessionStats() *SessionStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return &SessionStats{
		StartTime: m.sessionStats.StartTime,
		Tools:     copyTools(m.sessionStats.Tools),
	}
}

// GetPersistentStats returns a copy of the statistics across all sessions
func (m *StatsManager) GetPersistentStats() *PersistentStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return &PersistentStats{
		FirstRecorded: m.persistentStats.FirstRecorded,
		LastUpdated:   m.persistentStats.LastUpdated,
		Tools:         copyTools(m.persistentStats.Tools),
	}
}

// ResetSessionStats starts a new session.
func (m *StatsManager) ResetSessionStats() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessionStats = &SessionStats{
		StartTime: time.Now(),
		Tools:     make(map[string]*ToolStats),
	}
}

func copyTools(tools map[string]*ToolStats) map[string]*ToolStats {
	out := make(map[string]*ToolStats, len(tools))
	for name, tool := range tools {
		toolCopy := *tool
		out[name] = &toolCopy
	}
	return out
}

// savePersistentStats must be called with the mutex held.
func (m *StatsManager) savePersistentStats() error {
	data, err := json.MarshalIndent(m.persistentStats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := os.WriteFile(m.statsFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	return nil
}

// FormatStats formats statistics as a string
func FormatStats(sessionStats *SessionStats, persistentStats *PersistentStats) string {
	var b strings.Builder
	b.WriteString("Tool Usage Statistics\n\n")

	b.WriteString("Current Session Statistics:\n")
	fmt.Fprintf(&b, "Session started: %s\n", sessionStats.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Session duration: %s\n\n", time.Since(sessionStats.StartTime).Round(time.Second))
	writeToolTable(&b, sessionStats.Tools, "No tools used in this session.\n")

	b.WriteString("\nAll-Time Statistics:\n")
	fmt.Fprintf(&b, "First recorded: %s\n", persistentStats.FirstRecorded.Format(time.RFC3339))
	fmt.Fprintf(&b, "Last updated: %s\n\n", persistentStats.LastUpdated.Format(time.RFC3339))
	writeToolTable(&b, persistentStats.Tools, "No tools used across all sessions.\n")

	return b.String()
}

func writeToolTable(b *strings.Builder, tools map[string]*ToolStats, empty string) {
	if len(tools) == 0 {
		b.WriteString(empty)
		return
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("Tool                  | Calls | Errors | Avg Time  | Total Time | Matches\n")
	b.WriteString("----------------------|-------|--------|-----------|------------|--------\n")
	for _, name := range names {
		tool := tools[name]
		fmt.Fprintf(b, "%-22s| %5d | %6d | %9s | %10s | %7d\n",
			tool.Name,
			tool.CallCount,
			tool.ErrorCount,
			tool.AverageExecutionTime.Round(time.Millisecond).String(),
			tool.TotalExecutionTime.Round(time.Millisecond).String(),
			tool.MatchesReported)
	}
}
