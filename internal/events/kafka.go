package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// KafkaSink produces events to a topic keyed by location id. Sends happen
// on a background goroutine so request handlers never wait on the broker.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	queue    chan Event
	wg       sync.WaitGroup
}

// NewKafkaSink connects to brokers, retrying a few times while they start.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	var producer sarama.SyncProducer
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		producer, err = sarama.NewSyncProducer(brokers, cfg)
		if err == nil {
			break
		}
		logrus.WithError(err).WithField("attempt", attempt).Warn("kafka not ready, retrying")
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect kafka %v: %w", brokers, err)
	}
	return NewKafkaSinkWithProducer(producer, topic), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	k := &KafkaSink{
		producer: producer,
		topic:    topic,
		queue:    make(chan Event, 256),
	}
	k.wg.Add(1)
	go k.run()
	return k
}

func (k *KafkaSink) Publish(e Event) {
	select {
	case k.queue <- e:
	default:
		logrus.WithField("type", e.Type).Warn("kafka queue full, dropping event")
	}
}

func (k *KafkaSink) run() {
	defer k.wg.Done()
	for e := range k.queue {
		payload, err := json.Marshal(e)
		if err != nil {
			logrus.WithError(err).Error("marshal event")
			continue
		}
		partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(strconv.FormatUint(uint64(e.LocationID), 10)),
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			logrus.WithError(err).WithField("type", e.Type).Warn("failed to produce event")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"type": e.Type, "partition": partition, "offset": offset,
		}).Debug("event produced")
	}
}

// Close drains queued events and closes the producer.
func (k *KafkaSink) Close() error {
	close(k.queue)
	k.wg.Wait()
	return k.producer.Close()
}
