//go:build ignore

// Публикует тестовое событие в стрим сообщений, чтобы проверить воркер вручную:
//
//	go run scripts/test_publish.go -redis localhost:6379 -district Warangal
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/crime-dashboard/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	district := flag.String("district", "Hyderabad", "district of the fake report")
	eventType := flag.String("type", string(domain.ReportEventCreated), "created or status_changed")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	status := domain.ReportStatusPending
	if domain.ReportEventType(*eventType) == domain.ReportEventStatusChanged {
		status = domain.ReportStatusApproved
	}

	event := domain.ReportEvent{
		Type:       domain.ReportEventType(*eventType),
		ReportID:   uuid.New(),
		District:   *district,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamReportEvents,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published %s to %s\n", id, domain.StreamReportEvents)
	fmt.Printf("Report ID: %s\n", event.ReportID)
}
