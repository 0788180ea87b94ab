// Package models resolves which ASR and LLM model files should be active and
// keeps at most one live session of each kind.
package models

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/emmett/voxtype/internal/llm"
	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/stt"
)

// Selection is the user's model choice per kind: Auto or a model name
type Selection struct {
	ASR string
	LLM string
}

// Hinter receives advisory model status text
type Hinter interface {
	SetHint(text string)
}

// Observer is told whenever a slot changes
type Observer interface {
	ModelChanged(kind Kind, path string, loaded bool)
}

// Status is the outcome of one Refresh
type Status struct {
	ASRPath    string
	LLMPath    string
	ASRChanged bool
	LLMChanged bool
}

// ManagerConfig wires a Manager
type ManagerConfig struct {
	// Dir is where model files live
	Dir string

	// Memory reports total RAM in GB; nil uses TotalMemoryGB
	Memory func() (uint64, bool)

	OpenASR func(path string) (stt.Session, error)
	OpenLLM func(path string) (llm.Session, error)

	Hints     Hinter
	Observers []Observer
}

type slot[S io.Closer] struct {
	session S
	path    string
	loaded  bool
	checked bool
}

// Manager owns the ASR and LLM sessions. It is not safe for concurrent use;
// the pipeline worker is its only caller.
type Manager struct {
	cfg ManagerConfig
	log *logger.Logger

	asr slot[stt.Session]
	llm slot[llm.Session]
}

// NewManager creates a manager with empty slots
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Memory == nil {
		cfg.Memory = TotalMemoryGB
	}
	return &Manager{cfg: cfg, log: logger.Named("models")}
}

// Dir returns the model directory
func (m *Manager) Dir() string { return m.cfg.Dir }

// Refresh resolves both kinds and swaps any slot whose desired path changed
func (m *Manager) Refresh(sel Selection) Status {
	memGB, ok := m.cfg.Memory()
	if !ok {
		memGB = DefaultMemoryGB
	}

	asrPath := ResolveASR(m.cfg.Dir, sel.ASR)
	llmPath := ResolveLLM(m.cfg.Dir, sel.LLM, memGB)

	st := Status{ASRPath: asrPath, LLMPath: llmPath}
	st.ASRChanged = swap(m, KindASR, &m.asr, asrPath, m.cfg.OpenASR)
	st.LLMChanged = swap(m, KindLLM, &m.llm, llmPath, m.cfg.OpenLLM)
	return st
}

// ASR returns the loaded ASR session, nil if none
func (m *Manager) ASR() stt.Session {
	if !m.asr.loaded {
		return nil
	}
	return m.asr.session
}

// LLM returns the loaded LLM session, nil if none
func (m *Manager) LLM() llm.Session {
	if !m.llm.loaded {
		return nil
	}
	return m.llm.session
}

// ASRPath returns the path of the loaded ASR model, "" if none
func (m *Manager) ASRPath() string { return loadedPath(m.asr) }

// LLMPath returns the path of the loaded LLM model, "" if none
func (m *Manager) LLMPath() string { return loadedPath(m.llm) }

func loadedPath[S io.Closer](s slot[S]) string {
	if !s.loaded {
		return ""
	}
	return s.path
}

// Close releases both sessions
func (m *Manager) Close() {
	release(m, KindASR, &m.asr)
	release(m, KindLLM, &m.llm)
}

// swap drops the current session before opening the next one so two
// sessions of the same kind are never alive together. Reports whether the
// slot changed.
func swap[S io.Closer](m *Manager, kind Kind, s *slot[S], desired string, open func(string) (S, error)) bool {
	if s.checked && desired == s.path {
		return false
	}
	s.checked = true
	release(m, kind, s)

	if desired == "" {
		m.log.Warn().Str("kind", string(kind)).Str("dir", m.cfg.Dir).Msg("no model found")
		m.hint(fmt.Sprintf("No %s model found", kind.Label()))
		m.notify(kind, "", false)
		return true
	}
	if open == nil {
		m.log.Warn().Str("kind", string(kind)).Msg("no session constructor configured")
		m.notify(kind, desired, false)
		return true
	}

	// The path is recorded before loading, so a failed file is only
	// retried once the resolved path changes
	s.path = desired
	session, err := open(desired)
	if err != nil {
		m.log.Error().Err(err).Str("kind", string(kind)).Str("path", desired).Msg("model load failed")
		m.hint(fmt.Sprintf("%s model failed to load: %s", kind.Label(), filepath.Base(desired)))
		m.notify(kind, desired, false)
		return true
	}

	s.session = session
	s.loaded = true
	m.log.Info().Str("kind", string(kind)).Str("path", desired).Msg("model loaded")
	m.hint(fmt.Sprintf("%s model loaded: %s", kind.Label(), filepath.Base(desired)))
	m.notify(kind, desired, true)
	return true
}

func release[S io.Closer](m *Manager, kind Kind, s *slot[S]) {
	if s.loaded {
		if err := s.session.Close(); err != nil {
			m.log.Warn().Err(err).Str("kind", string(kind)).Str("path", s.path).Msg("failed to close session")
		}
	}
	var zero S
	s.session = zero
	s.path = ""
	s.loaded = false
}

func (m *Manager) hint(text string) {
	if m.cfg.Hints != nil {
		m.cfg.Hints.SetHint(text)
	}
}

func (m *Manager) notify(kind Kind, path string, loaded bool) {
	for _, o := range m.cfg.Observers {
		o.ModelChanged(kind, path, loaded)
	}
}
