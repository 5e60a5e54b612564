package util

import "errors"

var (
	ErrLearnerNotFound     = errors.New("learner not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrVersionConflict     = errors.New("learner was modified concurrently, retry the update")
	ErrUnsupportedLanguage = errors.New("unsupported playground language")
	ErrRunnerUnavailable   = errors.New("code runner unavailable")
)
