package navigation

// Service moves a cursor over a list of Count items
type Service struct {
	state State
}

// NewService creates a navigation service over an empty list
func NewService() *Service {
	return &Service{state: State{PageSize: 5}}
}

// Cursor returns the current cursor position
func (s *Service) Cursor() int {
	return s.state.Cursor
}

// Count returns the number of items
func (s *Service) Count() int {
	return s.state.Count
}

// Reset replaces the list and puts the cursor on the first item
func (s *Service) Reset(count int) {
	if count < 0 {
		count = 0
	}
	s.state.Count = count
	s.state.Cursor = 0
}

// SetViewportHeight derives the page size from the terminal height.
// Each result takes about two lines plus the surrounding chrome.
func (s *Service) SetViewportHeight(height int) {
	pageSize := (height - 12) / 2
	if pageSize < 1 {
		pageSize = 1
	}
	s.state.PageSize = pageSize
}

// Navigate handles navigation in a direction and reports whether the cursor moved
func (s *Service) Navigate(direction Direction) bool {
	oldCursor := s.state.Cursor

	switch direction {
	case DirectionUp:
		s.moveTo(s.state.Cursor - 1)
	case DirectionDown:
		s.moveTo(s.state.Cursor + 1)
	case DirectionPageUp:
		s.moveTo(s.state.Cursor - s.state.PageSize)
	case DirectionPageDown:
		s.moveTo(s.state.Cursor + s.state.PageSize)
	case DirectionHome:
		s.moveTo(0)
	case DirectionEnd:
		s.moveTo(s.state.Count - 1)
	}

	return oldCursor != s.state.Cursor
}

func (s *Service) moveTo(index int) {
	s.state.Cursor = s.clampIndex(index)
}

func (s *Service) clampIndex(index int) int {
	if index >= s.state.Count {
		index = s.state.Count - 1
	}
	if index < 0 {
		return 0
	}
	return index
}
