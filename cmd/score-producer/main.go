package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
)

// ScoreSubmission represents a score submission message
type ScoreSubmission struct {
	UserID   int64                  `json:"user_id"`
	Game     string                 `json:"game"`
	Score    int64                  `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

var gameNames = []string{
	"Space Raiders", "Pixel Quest", "Neon Drift", "Asteroid Alley", "Dungeon Dash",
	"Laser Maze", "Turbo Pond", "Crystal Caverns", "Robo Rumble", "Galaxy Patrol",
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "score-submissions", "Kafka topic")
	totalUsers := flag.Int("users", 100, "Number of user ids to submit for")
	updatesPerSecond := flag.Int("rate", 50, "Submissions per second")
	duration := flag.Duration("duration", 0, "Duration to run (0 = forever)")
	flag.Parse()

	brokerList := strings.Split(*brokers, ",")

	fmt.Println("Score producer")
	fmt.Printf("  Brokers: %s\n", *brokers)
	fmt.Printf("  Topic:   %s\n", *topic)
	fmt.Printf("  Users:   %d\n", *totalUsers)
	fmt.Printf("  Rate:    %d/sec\n", *updatesPerSecond)
	fmt.Println()

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 100 * time.Millisecond
	config.Producer.Flush.Messages = 100
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokerList, config)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}
	defer producer.Close()

	var successCount, errorCount int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range producer.Successes() {
			atomic.AddInt64(&successCount, 1)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range producer.Errors() {
			atomic.AddInt64(&errorCount, 1)
			log.Printf("Producer error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	sendMessage := func(submission ScoreSubmission) {
		data, err := json.Marshal(submission)
		if err != nil {
			log.Printf("Failed to marshal message: %v", err)
			return
		}

		msg := &sarama.ProducerMessage{
			Topic: *topic,
			Key:   sarama.StringEncoder(strconv.FormatInt(submission.UserID, 10)),
			Value: sarama.ByteEncoder(data),
		}

		select {
		case producer.Input() <- msg:
		case <-done:
		}
	}

	shutdown := func() {
		close(done)
		producer.AsyncClose()
		wg.Wait()
		fmt.Printf("\nCompleted. Sent: %d, Errors: %d\n",
			atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
	}

	interval := time.Second / time.Duration(*updatesPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var endTime time.Time
	if *duration > 0 {
		endTime = time.Now().Add(*duration)
	}

	fmt.Println("Submitting scores, press Ctrl+C to stop")

	for {
		select {
		case <-sigChan:
			shutdown()
			return

		case <-ticker.C:
			if *duration > 0 && time.Now().After(endTime) {
				shutdown()
				return
			}

			sendMessage(ScoreSubmission{
				UserID: int64(rand.Intn(*totalUsers) + 1),
				Game:   gameNames[rand.Intn(len(gameNames))],
				Score:  int64(rand.Intn(9000) + 1000),
				Metadata: map[string]interface{}{
					"source": "score-producer",
				},
			})
		}
	}
}
