package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Stands in for the game platform: answers break.show requests with
// break.opened / break.closed, grants rewards, and wanders between zones.

type breakOpenedEvent struct {
	BreakID   string    `json:"break_id"`
	OpenedAt  time.Time `json:"opened_at"`
	Timestamp time.Time `json:"timestamp"`
}

type breakClosedEvent struct {
	BreakID   string    `json:"break_id"`
	ClosedAt  time.Time `json:"closed_at"`
	Timestamp time.Time `json:"timestamp"`
}

type breakRewardEvent struct {
	BreakID   string    `json:"break_id"`
	RewardID  string    `json:"reward_id"`
	GrantedAt time.Time `json:"granted_at"`
	Timestamp time.Time `json:"timestamp"`
}

type zoneChangedEvent struct {
	Zone      string    `json:"zone"`
	ChangedAt time.Time `json:"changed_at"`
	Timestamp time.Time `json:"timestamp"`
}

var (
	brokers      = flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	apiURL       = flag.String("api", "http://localhost:8080", "Break gate HTTP API base URL")
	breakLength  = flag.Duration("break-length", 8*time.Second, "How long a simulated break stays open")
	rewardRate   = flag.Float64("reward-rate", 0.7, "Probability a break grants a reward (0.0-1.0)")
	zoneInterval = flag.Duration("zone-interval", 45*time.Second, "Time between simulated zone changes")
	manualRate   = flag.Float64("manual-rate", 0.2, "Probability of a manual trigger request per minute")
	statusEvery  = flag.Duration("status-every", 10*time.Second, "Interval between status prints")
)

var zones = []string{"lobby", "overworld", "dungeon", "arena"}

func main() {
	flag.Parse()

	brokerList := strings.Split(*brokers, ",")

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokerList, cfg)
	if err != nil {
		fmt.Printf("Failed to create Kafka producer: %v\n", err)
		os.Exit(1)
	}
	defer producer.Close()

	consumer, err := sarama.NewConsumer(brokerList, cfg)
	if err != nil {
		fmt.Printf("Failed to create Kafka consumer: %v\n", err)
		os.Exit(1)
	}
	defer consumer.Close()

	partConsumer, err := consumer.ConsumePartition("break.show", 0, sarama.OffsetNewest)
	if err != nil {
		fmt.Printf("Failed to consume break.show: %v\n", err)
		os.Exit(1)
	}
	defer partConsumer.Close()

	fmt.Printf("✅ Connected to Kafka at %s\n", *brokers)
	fmt.Printf("🎬 Simulating the platform; break gate API at %s\n", *apiURL)
	fmt.Printf("   Break length: %v | Reward rate: %.0f%% | Zone change every %v\n",
		*breakLength, *rewardRate*100, *zoneInterval)
	fmt.Printf("   Press Ctrl+C to stop\n\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	zoneTicker := time.NewTicker(*zoneInterval)
	defer zoneTicker.Stop()
	manualTicker := time.NewTicker(time.Minute)
	defer manualTicker.Stop()
	statusTicker := time.NewTicker(*statusEvery)
	defer statusTicker.Stop()

	breaksServed := 0
	rewardsGranted := 0

	for {
		select {
		case <-sigChan:
			fmt.Printf("\n\n🛑 Simulation stopped after %d breaks (%d rewards)\n", breaksServed, rewardsGranted)
			return

		case msg := <-partConsumer.Messages():
			breakID := uuid.New().String()
			fmt.Printf("🖥️  Show request received (offset %d), opening break %s\n", msg.Offset, breakID[:8])

			now := time.Now()
			publish(producer, "break.opened", breakID, breakOpenedEvent{
				BreakID: breakID, OpenedAt: now, Timestamp: now,
			})

			time.Sleep(*breakLength)

			if rand.Float64() < *rewardRate {
				now = time.Now()
				publish(producer, "break.reward", breakID, breakRewardEvent{
					BreakID: breakID, RewardID: uuid.New().String(), GrantedAt: now, Timestamp: now,
				})
				rewardsGranted++
			}

			now = time.Now()
			publish(producer, "break.closed", breakID, breakClosedEvent{
				BreakID: breakID, ClosedAt: now, Timestamp: now,
			})
			breaksServed++
			fmt.Printf("👋 Break %s closed\n", breakID[:8])

		case <-zoneTicker.C:
			zone := zones[rand.Intn(len(zones))]
			now := time.Now()
			publish(producer, "zone.changed", zone, zoneChangedEvent{
				Zone: zone, ChangedAt: now, Timestamp: now,
			})
			fmt.Printf("🗺️  Moved to zone %q\n", zone)

		case <-manualTicker.C:
			if rand.Float64() < *manualRate {
				requestManualTrigger()
			}

		case <-statusTicker.C:
			printStatus()
		}
	}
}

func publish(producer sarama.SyncProducer, topic, key string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("❌ Failed to marshal %s event: %v\n", topic, err)
		return
	}

	_, _, err = producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		fmt.Printf("❌ Failed to publish to %s: %v\n", topic, err)
	}
}

func requestManualTrigger() {
	resp, err := http.Post(*apiURL+"/api/v1/break/trigger", "application/json", nil)
	if err != nil {
		fmt.Printf("❌ Manual trigger request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var body struct {
		Admitted bool `json:"admitted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return
	}
	fmt.Printf("🔔 Manual trigger requested: admitted=%v (HTTP %d)\n", body.Admitted, resp.StatusCode)
}

func printStatus() {
	resp, err := http.Get(*apiURL + "/api/v1/break/status")
	if err != nil {
		fmt.Printf("⚠️  Status unavailable: %v\n", err)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}
	fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), strings.TrimSpace(string(data)))
}
