package ui

import (
	"docsearch/internal/domain"
)

// documentMsg contains the result of a document fetch
type documentMsg struct {
	id  string
	doc *domain.Document
	err error
}

// documentPagerMsg contains the result of showing a document in the pager
type documentPagerMsg struct {
	id  string
	err error
}

// pauseRenderingMsg signals that the pager owns the terminal
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals that the pager has returned the terminal
type resumeRenderingMsg struct{}
