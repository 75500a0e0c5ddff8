// Package worker runs ETL jobs enqueued over Redis. The HTTP layer (or an
// external scheduler hitting it) dispatches job requests; a single consumer
// executes them sequentially, preserving the pipeline's one-run-at-a-time
// model. Failed jobs land in a dead-letter list for operator inspection.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueETL      = "jobs:etl"
	DeadLetterETL = "jobs:etl:dead"
)

// Job names an ETL run: kind is "extract" or "promote", entity is a staging
// entity name.
type Job struct {
	Kind       string    `json:"kind"`
	Entity     string    `json:"entity"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// DeadJob is a failed job plus its failure reason.
type DeadJob struct {
	Job
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// Dispatcher enqueues ETL jobs into a Redis list. Workers dequeue via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) Enqueue(ctx context.Context, kind, entity string) error {
	job := Job{Kind: kind, Entity: entity, EnqueuedAt: time.Now().UTC()}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueETL, encoded).Err()
}

// DeadLetters returns up to limit failed jobs, newest first.
func (d *Dispatcher) DeadLetters(ctx context.Context, limit int64) ([]DeadJob, error) {
	raws, err := d.rdb.LRange(ctx, DeadLetterETL, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	jobs := make([]DeadJob, 0, len(raws))
	for _, raw := range raws {
		var dj DeadJob
		if err := json.Unmarshal([]byte(raw), &dj); err != nil {
			continue
		}
		jobs = append(jobs, dj)
	}
	return jobs, nil
}

// JobExecutor runs one ETL job to completion.
type JobExecutor interface {
	Execute(ctx context.Context, job Job) error
}

// Start launches n consumer goroutines blocking on BRPOP. n should stay at 1
// unless jobs are known to touch disjoint staging partitions.
func Start(ctx context.Context, rdb *redis.Client, exec JobExecutor, n int) {
	for i := 0; i < n; i++ {
		go run(ctx, rdb, exec, i)
	}
	log.Info().Int("workers", n).Msg("etl queue workers started")
}

func run(ctx context.Context, rdb *redis.Client, exec JobExecutor, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("etl worker shutting down")
			return
		default:
			// Blocking pop; waits up to 5s then loops to check ctx.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueETL).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			process(ctx, rdb, exec, result[1])
		}
	}
}

func process(ctx context.Context, rdb *redis.Client, exec JobExecutor, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal etl job")
		return
	}

	log.Info().Str("kind", job.Kind).Str("entity", job.Entity).Msg("running etl job")
	if err := exec.Execute(ctx, job); err != nil {
		log.Error().Str("kind", job.Kind).Str("entity", job.Entity).Err(err).Msg("etl job failed")
		deadLetter(ctx, rdb, job, err)
	}
}

func deadLetter(ctx context.Context, rdb *redis.Client, job Job, cause error) {
	dj := DeadJob{Job: job, Error: cause.Error(), FailedAt: time.Now().UTC()}
	encoded, err := json.Marshal(dj)
	if err != nil {
		return
	}
	if err := rdb.LPush(ctx, DeadLetterETL, encoded).Err(); err != nil {
		log.Error().Err(err).Msg("failed to record dead letter")
	}
}
