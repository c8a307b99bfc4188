package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"take_exam_backend/internal/config"
	"take_exam_backend/internal/model"
	"take_exam_backend/internal/util"
	"take_exam_backend/pkg/logger"
	"take_exam_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	progressCacheKeyPrefix = "exam:progress:"
	progressCacheTTL       = 30 * time.Second
)

// ProgressStore 进度记录的持久化抽象，由 repository.ExamProgressRepository 实现
type ProgressStore interface {
	Find(ctx context.Context, examID string) (*model.ExamProgress, error)
	// Mutate 对 examId 的记录做互斥的读-改-写；fn 收到 nil 表示记录不存在
	Mutate(ctx context.Context, examID string, fn func(*model.ExamProgress) (*model.ExamProgress, error)) (*model.ExamProgress, error)
}

type ExamProgressService struct {
	Store ProgressStore
	Redis *redis.Client
	now   func() time.Time

	// policy 支持配置热更新，读写都要拿锁
	policyMu sync.RWMutex
	policy   config.ExamConfig
}

func NewExamProgressService(store ProgressStore, rdb *redis.Client, cfg *config.Config) *ExamProgressService {
	return &ExamProgressService{
		Store:  store,
		Redis:  rdb,
		policy: cfg.Exam,
		now:    time.Now,
	}
}

// NewExamProgressServiceWithClock 测试用，注入固定时钟
func NewExamProgressServiceWithClock(store ProgressStore, cfg *config.Config, now func() time.Time) *ExamProgressService {
	s := NewExamProgressService(store, nil, cfg)
	s.now = now
	return s
}

// UpdatePolicy 热更新锁定策略，只影响之后的提交
func (s *ExamProgressService) UpdatePolicy(policy config.ExamConfig) {
	s.policyMu.Lock()
	s.policy = policy
	s.policyMu.Unlock()
}

func (s *ExamProgressService) currentPolicy() config.ExamConfig {
	s.policyMu.RLock()
	defer s.policyMu.RUnlock()
	return s.policy
}

// SubmitAnswer 整批作答的提交状态机。questions 是调用方从题库取来的本次
// 作答有效题目集合；整个 加载→变更→落库 在一个事务里完成，中途任何失败
// 都不会留下半写状态。
func (s *ExamProgressService) SubmitAnswer(ctx context.Context, examID string, answers []SubmittedAnswer, questions []model.ExamQuestion) (*model.ExamProgress, error) {
	if len(answers) == 0 {
		monitoring.SubmissionCounter.WithLabelValues("invalid").Inc()
		return nil, util.NewValidationError("quiz_answers must be a non-empty array")
	}
	if len(questions) == 0 {
		monitoring.SubmissionCounter.WithLabelValues("invalid").Inc()
		return nil, util.NewValidationError("question set must contain at least one question")
	}

	// 每个 questionRef 都必须能解析到题目定义，整批校验先于任何变更
	index := make(map[string]*model.ExamQuestion, len(questions))
	for i := range questions {
		index[questions[i].Prompt] = &questions[i]
		if questions[i].ID != "" {
			index[questions[i].ID] = &questions[i]
		}
	}
	for _, answer := range answers {
		if _, ok := index[answer.Question]; !ok {
			monitoring.SubmissionCounter.WithLabelValues("not_found").Inc()
			return nil, util.NewNotFoundError("no matching question found for %q", answer.Question)
		}
	}

	now := s.now()
	policy := s.currentPolicy()
	lockApplied := false

	record, err := s.Store.Mutate(ctx, examID, func(progress *model.ExamProgress) (*model.ExamProgress, error) {
		if progress == nil {
			progress = &model.ExamProgress{
				ExamID:         examID,
				TotalQuestions: len(questions),
			}
			logger.Log.Info("created new exam progress", zap.String("examId", examID))
		} else {
			if progress.Locked(now) {
				return nil, &util.LockedError{RemainingSeconds: progress.RemainingLockSeconds(now)}
			}
			if progress.LockUntil != nil {
				// 锁已过期：达到阈值说明一个完整周期结束，重置 attempts
				if progress.Attempts >= policy.MaxAttempts {
					progress.Attempts = 0
				}
				progress.LockUntil = nil
			}
		}

		progress.TotalQuestions = len(questions)
		progress.AnswerLog = model.AnswerLog{}
		progress.Attempts++

		correctCount := 0
		for _, answer := range answers {
			question := index[answer.Question]
			result, err := ValidateAnswer(answer.Answer, question)
			if err != nil {
				return nil, err
			}
			if result.IsCorrect {
				correctCount++
			}
			progress.AnswerLog = append(progress.AnswerLog, model.AnswerLogEntry{
				SelectedAnswer: result.SelectedAnswer,
				CorrectAnswer:  result.CorrectAnswer,
				IsCorrect:      result.IsCorrect,
				TimeTaken:      0,
				Timestamp:      now,
			})
		}

		// 防御性收紧，避免重复计数把 correct 顶过 total
		if correctCount > progress.TotalQuestions {
			correctCount = progress.TotalQuestions
		}
		progress.CorrectQuestions = correctCount

		percentage := float64(progress.CorrectQuestions) / float64(progress.TotalQuestions) * 100
		progress.AttemptLog = append(progress.AttemptLog, model.AttemptLogEntry{
			Percentage: percentage,
			Timestamp:  now,
		})
		if percentage > progress.HighestPercentage {
			progress.HighestPercentage = percentage
		}
		submittedAt := now
		progress.LastSubmittedAt = &submittedAt
		progress.IsCompleted = true

		if progress.Attempts >= policy.MaxAttempts {
			lockUntil := now.Add(policy.LockDuration)
			progress.LockUntil = &lockUntil
			progress.LockCount++
			lockApplied = true
		}

		return progress, nil
	})
	if err != nil {
		s.countSubmitFailure(err)
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues("ok").Inc()
	if n := len(record.AttemptLog); n > 0 {
		monitoring.SubmissionPercentage.Observe(record.AttemptLog[n-1].Percentage)
	}
	if lockApplied {
		monitoring.ExamLockCounter.Inc()
		logger.Log.Info("exam lock applied",
			zap.String("examId", examID),
			zap.Int("lockCount", record.LockCount),
			zap.Duration("lockDuration", policy.LockDuration))
	}
	s.invalidateCache(ctx, examID)

	// 权威变更已经落库，这里只借 CalculateProgress 把返回快照整形一遍
	snapshot, err := s.CalculateProgress(ctx, examID, record.TotalQuestions, record.CorrectQuestions)
	if err != nil {
		return nil, err
	}
	snapshot.LastSubmittedAt = record.LastSubmittedAt
	return snapshot, nil
}

// CalculateProgress 按外部给定的计数做幂等的 find-or-create/upsert。
// 纯重算调用不会动 attempts、lockUntil 或 attemptLog。
func (s *ExamProgressService) CalculateProgress(ctx context.Context, examID string, totalQuestions, correctQuestions int) (*model.ExamProgress, error) {
	if totalQuestions <= 0 || correctQuestions < 0 || correctQuestions > totalQuestions {
		return nil, util.NewValidationError(
			"totalQuestions and correctQuestions must be non-negative integers, and correctQuestions must not exceed totalQuestions")
	}

	percentage := float64(correctQuestions) / float64(totalQuestions) * 100

	record, err := s.Store.Mutate(ctx, examID, func(progress *model.ExamProgress) (*model.ExamProgress, error) {
		if progress == nil {
			return &model.ExamProgress{
				ExamID:            examID,
				TotalQuestions:    totalQuestions,
				CorrectQuestions:  correctQuestions,
				HighestPercentage: percentage,
				AttemptLog:        model.AttemptLog{},
				AnswerLog:         model.AnswerLog{},
			}, nil
		}
		progress.TotalQuestions = totalQuestions
		progress.CorrectQuestions = correctQuestions
		if percentage > progress.HighestPercentage {
			progress.HighestPercentage = percentage
		}
		return progress, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, examID)
	return record, nil
}

// GetProgress 只读快照，带短 TTL 的 Redis 缓存
func (s *ExamProgressService) GetProgress(ctx context.Context, examID string) (*model.ExamProgress, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, progressCacheKeyPrefix+examID).Result()
		if err == nil {
			var cached model.ExamProgress
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("progress cache read failed", zap.String("examId", examID), zap.Error(err))
		}
	}

	progress, err := s.Store.Find(ctx, examID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(progress); err == nil {
			if err := s.Redis.Set(ctx, progressCacheKeyPrefix+examID, data, progressCacheTTL).Err(); err != nil {
				logger.Log.Warn("progress cache write failed", zap.String("examId", examID), zap.Error(err))
			}
		}
	}
	return progress, nil
}

func (s *ExamProgressService) invalidateCache(ctx context.Context, examID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, progressCacheKeyPrefix+examID).Err(); err != nil {
		logger.Log.Warn("progress cache invalidation failed", zap.String("examId", examID), zap.Error(err))
	}
}

func (s *ExamProgressService) countSubmitFailure(err error) {
	var locked *util.LockedError
	switch {
	case util.IsValidation(err):
		monitoring.SubmissionCounter.WithLabelValues("invalid").Inc()
	case util.IsNotFound(err):
		monitoring.SubmissionCounter.WithLabelValues("not_found").Inc()
	case errors.As(err, &locked):
		monitoring.SubmissionCounter.WithLabelValues("locked").Inc()
	default:
		monitoring.SubmissionCounter.WithLabelValues("error").Inc()
	}
}
