package domain

import "errors"

// Pipeline-fatal error categories. Per-feed fetch failures are absorbed by
// the aggregator and never surface here.
var (
	// ErrNoArticles means every configured feed failed or yielded nothing.
	ErrNoArticles = errors.New("no articles found in RSS feeds")

	// ErrScriptGeneration means the text-generation response carried no
	// usable text payload.
	ErrScriptGeneration = errors.New("script generation returned no text")

	// ErrSpeechSynthesis means the text-to-speech response carried no audio
	// payload.
	ErrSpeechSynthesis = errors.New("speech synthesis returned no audio")

	// ErrStorage means the audio artifact could not be persisted.
	ErrStorage = errors.New("audio upload failed")

	// ErrRecordStore means a podcast record operation failed.
	ErrRecordStore = errors.New("podcast record store failure")

	// ErrNotFound means no podcast record exists for the requested id.
	ErrNotFound = errors.New("podcast not found")
)
