package main

import (
	"go.uber.org/zap"

	"docsearch/internal/eventbus"
)

// subscribeEventLog writes every lifecycle event to the log file
func subscribeEventLog(bus eventbus.EventBus, log *zap.Logger) {
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ConfigLoadedEvent); ok {
			log.Info("config loaded", zap.String("path", event.Path), zap.String("endpoint", event.Endpoint))
		}
	})
	bus.Subscribe(eventbus.EventSearchSubmitted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchSubmittedEvent); ok {
			log.Info("search submitted", zap.Uint64("epoch", event.Epoch), zap.String("query", event.Query))
		}
	})
	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchCompletedEvent); ok {
			log.Info("search completed",
				zap.Uint64("epoch", event.Epoch),
				zap.String("query", event.Query),
				zap.Int("results", event.Count),
				zap.Duration("elapsed", event.Elapsed))
		}
	})
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchFailedEvent); ok {
			log.Warn("search failed",
				zap.Uint64("epoch", event.Epoch),
				zap.String("query", event.Query),
				zap.String("message", event.Message),
				zap.Error(event.Err))
		}
	})
	bus.Subscribe(eventbus.EventResponseDiscarded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ResponseDiscardedEvent); ok {
			log.Debug("stale response discarded",
				zap.Uint64("epoch", event.Epoch),
				zap.Uint64("current", event.Current),
				zap.String("query", event.Query))
		}
	})
	bus.Subscribe(eventbus.EventDocumentOpened, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.DocumentOpenedEvent); ok {
			log.Info("document opened", zap.String("doc_id", event.ID))
		}
	})
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ErrorEvent); ok {
			log.Error(event.Message, zap.Error(event.Err))
		}
	})
}
