package agents

import (
	"context"
	"math/rand/v2"
	"time"
)

const timeLayout = "2006-01-02T15:04:05Z"

var jokes = []string{
	"Why did the programmer quit his job? Because he didn't get arrays!",
	"Why do programmers prefer dark mode? Because light attracts bugs!",
	"Why did the programmer go broke? Because he used up all his cache!",
	"What's a programmer's favorite hangout spot? The Foo Bar!",
	"Why do programmers always mix up Halloween and Christmas? Because Oct 31 equals Dec 25!",
	"Why did the programmer get kicked out of school? Because he kept breaking too many classes!",
	"What do you call a programmer from Finland? Nerdic!",
	"Why do programmers hate nature? It has too many bugs!",
	"What's a programmer's favorite place in New York? Boolean Station!",
	"Why did the programmer get stuck in the shower? The instructions said: Lather, Rinse, Repeat!",
}

var quotes = []string{
	"Believe in yourself and all that you are.",
	"The future belongs to those who believe in the beauty of their dreams. - Eleanor Roosevelt",
	"Success is not final, failure is not fatal. - Winston Churchill",
	"The only way to do great work is to love what you do. - Steve Jobs",
	"Everything you've ever wanted is on the other side of fear. - George Addair",
	"The best time to plant a tree was 20 years ago. The second best time is now. - Chinese Proverb",
	"Don't watch the clock; do what it does. Keep going. - Sam Levenson",
	"The only limit to our realization of tomorrow will be our doubts of today. - Franklin D. Roosevelt",
	"What you do today can improve all your tomorrows. - Ralph Marston",
	"The way to get started is to quit talking and begin doing. - Walt Disney",
}

func NewHelloWorld() Agent {
	return NewFunc("hello_world", func(context.Context, Input) (any, error) {
		return "Hello, World from the agent!", nil
	})
}

func NewGoodbye() Agent {
	return NewFunc("goodbye", func(context.Context, Input) (any, error) {
		return "Goodbye from the agent!", nil
	})
}

func NewEcho() Agent {
	return NewFunc("echo", func(context.Context, Input) (any, error) {
		return map[string]any{"message": "Echo from agent!"}, nil
	})
}

// NewTime reports the current UTC time. A nil now uses the wall clock.
func NewTime(now func() time.Time) Agent {
	if now == nil {
		now = time.Now
	}
	return NewFunc("time", func(context.Context, Input) (any, error) {
		return map[string]any{"time": now().UTC().Format(timeLayout)}, nil
	})
}

// NewJoke picks a joke with pick(n), which must return a value in [0, n).
// A nil pick is uniform random.
func NewJoke(pick func(n int) int) Agent {
	return newPicker("joke", "joke", jokes, pick)
}

func NewQuote(pick func(n int) int) Agent {
	return newPicker("quote", "quote", quotes, pick)
}

func newPicker(name, key string, choices []string, pick func(n int) int) Agent {
	if pick == nil {
		pick = rand.IntN
	}
	return NewFunc(name, func(context.Context, Input) (any, error) {
		return map[string]any{key: choices[pick(len(choices))]}, nil
	})
}
