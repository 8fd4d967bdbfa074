package domain

import "sync"

// Sequence aloca os ids de título. Um id alocado nunca é reutilizado, mesmo após exclusão.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// SeedSequence começa em max(ids)+1, ou 1 quando não há títulos.
func SeedSequence(titles []Title) *Sequence {
	s := &Sequence{next: 1}
	for _, t := range titles {
		s.observe(t.SequenceID)
	}
	return s
}

func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

func (s *Sequence) Peek() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Observe avança a sequência quando um id externo a alcança.
func (s *Sequence) Observe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe(id)
}

func (s *Sequence) observe(id int) {
	if id >= s.next {
		s.next = id + 1
	}
}
