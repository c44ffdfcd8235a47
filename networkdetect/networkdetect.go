package networkdetect

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-ping/ping"
	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/utils"
	"github.com/solrecord/record-service/webhook"
)

// hostOf strips the scheme and port from an rpc endpoint url.
func hostOf(peer string) string {
	address := peer
	if index := strings.Index(address, "://"); index >= 0 {
		address = address[index+3:]
	}
	if index := strings.LastIndex(address, ":"); index >= 0 {
		address = address[:index]
	}
	if index := strings.Index(address, "/"); index >= 0 {
		address = address[:index]
	}
	return address
}

func detect(peer string) (int64, error) {
	pinger, err := ping.NewPinger(hostOf(peer))
	if err != nil {
		return 0, err
	}
	pinger.Count = 3
	pinger.Timeout = time.Second * 3
	if err = pinger.Run(); err != nil {
		return 0, err
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, fmt.Errorf("peer %s: no reply", peer)
	}
	return stats.AvgRtt.Nanoseconds(), nil
}

// DetectPeers probes every peer and returns the fastest along with its
// average rtt.
func DetectPeers(peers []string) (string, int64) {
	minttl := int64(math.MaxInt64)
	index := -1
	for i, peer := range peers {
		ttl, err := detect(peer)
		if err != nil {
			continue
		}
		if ttl < minttl {
			minttl = ttl
			index = i
		}
	}
	if index < 0 {
		return "", 0
	}
	return peers[index], minttl
}

// NetworkDetector periodically probes one peer and raises a webhook alarm
// when latency degrades.
type NetworkDetector struct {
	peer      string
	threshold int64
	logger    *log.Logger
	notifier  *webhook.Notifier
}

func NewNetworkDetector(peer string, threshold int64, notifier *webhook.Notifier) *NetworkDetector {
	logger := utils.NewLog(config.LogPath, config.NetworkLog)
	return &NetworkDetector{
		peer:      hostOf(peer),
		threshold: threshold,
		logger:    logger,
		notifier:  notifier,
	}
}

func (nd *NetworkDetector) Start() {
	go nd.run()
}

func (nd *NetworkDetector) run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		ttl, err := detect(nd.peer)
		if err != nil {
			nd.logger.Printf("detect %s err: %s", nd.peer, err)
			continue
		}
		nd.logger.Printf("peer %s rtt: %dms", nd.peer, ttl/int64(time.Millisecond))
		if nd.threshold > 0 && ttl > nd.threshold && nd.notifier != nil {
			nd.notifier.Notify(fmt.Sprintf("rpc peer %s rtt %dms over threshold", nd.peer, ttl/int64(time.Millisecond)))
		}
	}
}
