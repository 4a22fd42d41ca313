package kafkautils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/marketbay/shopfront/pkg"
	"go.uber.org/zap"
)

type tp struct {
	topic     string
	partition int32
}

// CommitManager tracks processed offsets per partition and commits only the
// contiguous prefix, so concurrent message processing cannot skip an
// unprocessed offset on rebalance.
type CommitManager struct {
	mu       sync.Mutex
	high     map[tp]int64              // last committed offset per partition
	done     map[tp]map[int64]struct{} // processed offsets not yet committed
	consumer *kafka.Consumer
	log      *zap.Logger
}

func NewCommitManager(c *kafka.Consumer, l *zap.Logger) *CommitManager {
	return &CommitManager{
		high:     make(map[tp]int64),
		done:     make(map[tp]map[int64]struct{}),
		consumer: c,
		log:      l,
	}
}

func (m *CommitManager) Ack(orderCode string, msg *kafka.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tp{topic: *msg.TopicPartition.Topic, partition: msg.TopicPartition.Partition}
	off := int64(msg.TopicPartition.Offset)

	if m.done[key] == nil {
		m.done[key] = map[int64]struct{}{}
	}
	m.done[key][off] = struct{}{}

	next := m.high[key]
	for {
		if _, ok := m.done[key][next+1]; ok {
			next++
			delete(m.done[key], next)
		} else {
			break
		}
	}

	if next > m.high[key] {
		tpToCommit := kafka.TopicPartition{Topic: &key.topic, Partition: key.partition, Offset: kafka.Offset(next + 1)}
		if _, err := m.consumer.CommitOffsets([]kafka.TopicPartition{tpToCommit}); err != nil {
			m.log.Error("offset_commit_failed",
				zap.String(pkg.OrderCode, orderCode),
				zap.String("topic", key.topic),
				zap.Int32("partition", key.partition),
				zap.Int64("attempted_offset", next), zap.Error(err))
			return
		}
		m.high[key] = next
		m.log.Debug("offset_committed",
			zap.String(pkg.OrderCode, orderCode),
			zap.String("topic", key.topic),
			zap.Int32("partition", key.partition),
			zap.Int64("offset", next))
	}
}
