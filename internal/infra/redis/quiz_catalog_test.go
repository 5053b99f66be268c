package redis

import (
	"context"
	"testing"
	"time"

	"openliq/internal/domain"
	"openliq/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizCatalogCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"it": sampleQuiz(),
		}),
	}
	catalog := NewQuizCatalog(client, loader, time.Minute)

	quiz, err := catalog.GetQuiz(context.Background(), "it")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].CorrectIndex != 0 {
		t.Fatalf("unexpected quiz content %+v", quiz)
	}
	if !mr.Exists("quiz:it:data") {
		t.Fatalf("expected cached quiz document in redis")
	}

	// second call hits the cache: texts and options must survive the round trip
	quiz, err = catalog.GetQuiz(context.Background(), "it")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if quiz.Questions[0].Text == "" || len(quiz.Questions[0].Options) != 4 {
		t.Fatalf("cached quiz lost content: %+v", quiz.Questions[0])
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "it",
		Questions: []domain.Question{
			{
				Text:         "Was bedeutet CPU?",
				Options:      []string{"Central Processing Unit", "Computer Personal Unit", "Central Print Unit", "Control Processing Unit"},
				CorrectIndex: 0,
			},
		},
	}
}
