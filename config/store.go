package config

import "sync"

// Store holds the settings the answer pipeline reads on every attempt.
// Setters take effect on the next question, never mid-attempt.
type Store struct {
	mu sync.RWMutex

	autoSubmit    bool
	autoCopy      bool
	showQuestion  bool
	showOptions   bool
	questionTypes []string
	questionScope string
}

func NewStore(cfg *Config) *Store {
	return &Store{
		autoSubmit:    cfg.AutoSubmit,
		autoCopy:      cfg.AutoCopy,
		showQuestion:  cfg.ShowQuestion,
		showOptions:   cfg.ShowOptions,
		questionTypes: append([]string(nil), cfg.QuestionTypes...),
		questionScope: cfg.QuestionScope,
	}
}

func (s *Store) AutoSubmit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoSubmit
}

func (s *Store) SetAutoSubmit(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoSubmit = v
}

func (s *Store) AutoCopy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoCopy
}

func (s *Store) SetAutoCopy(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoCopy = v
}

func (s *Store) ShowQuestion() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showQuestion
}

func (s *Store) SetShowQuestion(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showQuestion = v
}

func (s *Store) ShowOptions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showOptions
}

func (s *Store) SetShowOptions(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showOptions = v
}

func (s *Store) QuestionTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.questionTypes...)
}

func (s *Store) SetQuestionTypes(types []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionTypes = append([]string(nil), types...)
}

func (s *Store) QuestionScope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questionScope
}

func (s *Store) SetQuestionScope(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionScope = scope
}
