package todo

import (
	"context"
	"log"

	"todolist/models"

	"github.com/google/uuid"
)

// Watch streams full snapshots of the session owner's tasks whose completed
// flag matches. The first snapshot is sent right away and another follows
// every change on the feed. Only the newest snapshot is kept for a slow
// reader.
//
// Without a session the returned channel is already closed. Otherwise it
// closes once ctx is done or the feed ends.
func Watch(ctx context.Context, sess *models.Session, completed bool, store TaskStore, feed ChangeFeed) <-chan []models.Task {
	out := make(chan []models.Task, 1)
	owner := sess.Owner()
	if owner == uuid.Nil {
		close(out)
		return out
	}

	ticks, stop, err := feed.Subscribe(ctx, owner)
	if err != nil {
		log.Printf("watch %s: subscribe failed: %v", owner, err)
		close(out)
		return out
	}

	go func() {
		defer close(out)
		defer stop()

		emit := func() {
			tasks, err := store.QueryTasks(ctx, owner, completed)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("watch %s: query failed: %v", owner, err)
				}
				return
			}
			// drop a snapshot nobody has read yet
			select {
			case <-out:
			default:
			}
			out <- tasks
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return out
}

// Partition splits tasks by their completed flag, keeping order.
func Partition(tasks []models.Task) (pending, completed []models.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}
