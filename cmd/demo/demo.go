// Command demo seeds the configured database with a week of sample moods.
package main

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/store"
)

var notes = []string{
	"",
	"long walk by the river",
	"too many meetings",
	"",
	"slept badly",
	"dinner with friends",
	"",
}

func main() {
	p, err := store.Load(nil)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	ctx := context.Background()
	options := mood.Default().Options()
	now := time.Now()
	for day := 6; day >= 0; day-- {
		for i := 0; i < 1+day%3; i++ {
			opt := options[(day+i)%len(options)]
			e := &entry.Entry{
				Mood:      opt.DisplayName,
				MoodLevel: opt.Level,
				Notes:     notes[(day+i)%len(notes)],
				Timestamp: entry.FromMillis(now.AddDate(0, 0, -day).Add(-time.Duration(i) * 3 * time.Hour).UnixMilli()),
			}
			if err := p.Insert(ctx, e); err != nil {
				panic(err)
			}
		}
	}

	all, err := p.ListAll(ctx)
	if err != nil {
		panic(err)
	}
	for _, e := range all {
		fmt.Println(e.String())
	}
}
