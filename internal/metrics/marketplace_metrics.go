package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics содержит метрики движка маркетплейса.
type MarketplaceMetrics struct {
	// Счётчики покупок
	purchasesTotal      prometheus.Counter
	purchaseAmountMinor prometheus.Counter
	purchaseConflicts   prometheus.Counter
	purchaseRejected    *prometheus.CounterVec

	// Гистограмма времени расчёта покупки
	purchaseDuration prometheus.Histogram

	// Регистрации по видам участников
	registrationsTotal *prometheus.CounterVec

	// Списки желаний
	wishlistAdded   prometheus.Counter
	wishlistRemoved prometheus.Counter

	// Уведомления
	notificationsSent   prometheus.Counter
	notificationsFailed prometheus.Counter

	// Gauge для уведомлений в полёте
	notificationsInFlight prometheus.Gauge
}

// NewMarketplaceMetrics создаёт новый экземпляр метрик маркетплейса.
func NewMarketplaceMetrics() *MarketplaceMetrics {
	return newMarketplaceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newMarketplaceMetricsWithRegisterer(registerer prometheus.Registerer) *MarketplaceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MarketplaceMetrics{
		purchasesTotal: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_purchases_total",
			Help: "Total number of completed purchases",
		}),
		purchaseAmountMinor: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_purchase_amount_minor_total",
			Help: "Total settled purchase amount in minor currency units",
		}),
		purchaseConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_purchase_conflicts_total",
			Help: "Total number of concurrent purchase attempts lost to another buyer",
		}),
		purchaseRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "marketplace_purchase_rejected_total",
			Help: "Total number of rejected purchase attempts by reason",
		}, []string{"reason"}),
		purchaseDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "marketplace_purchase_duration_seconds",
			Help:    "Duration of purchase settlement in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		registrationsTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "marketplace_registrations_total",
			Help: "Total number of registered principals by kind",
		}, []string{"kind"}),
		wishlistAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_wishlist_added_total",
			Help: "Total number of wishlist memberships added",
		}),
		wishlistRemoved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_wishlist_removed_total",
			Help: "Total number of wishlist memberships removed",
		}),
		notificationsSent: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_notifications_sent_total",
			Help: "Total number of notifications delivered",
		}),
		notificationsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "marketplace_notifications_failed_total",
			Help: "Total number of notification deliveries that failed",
		}),
		notificationsInFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "marketplace_notifications_in_flight",
			Help: "Number of notification dispatches currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordPurchase фиксирует завершённую покупку и её сумму.
func (m *MarketplaceMetrics) RecordPurchase(amountMinor int64) {
	m.purchasesTotal.Inc()
	if amountMinor > 0 {
		m.purchaseAmountMinor.Add(float64(amountMinor))
	}
}

// RecordPurchaseConflict фиксирует проигранную конкурентную покупку.
func (m *MarketplaceMetrics) RecordPurchaseConflict() {
	m.purchaseConflicts.Inc()
}

// RecordPurchaseRejected фиксирует отклонённую покупку с причиной.
func (m *MarketplaceMetrics) RecordPurchaseRejected(reason string) {
	m.purchaseRejected.WithLabelValues(reason).Inc()
}

// RecordPurchaseDuration записывает время расчёта покупки.
func (m *MarketplaceMetrics) RecordPurchaseDuration(duration time.Duration) {
	m.purchaseDuration.Observe(duration.Seconds())
}

// RecordRegistration фиксирует регистрацию участника указанного вида.
func (m *MarketplaceMetrics) RecordRegistration(kind string) {
	m.registrationsTotal.WithLabelValues(kind).Inc()
}

// RecordWishlistAdded увеличивает счётчик добавлений в списки желаний.
func (m *MarketplaceMetrics) RecordWishlistAdded() {
	m.wishlistAdded.Inc()
}

// RecordWishlistRemoved увеличивает счётчик удалений из списков желаний.
func (m *MarketplaceMetrics) RecordWishlistRemoved() {
	m.wishlistRemoved.Inc()
}

// RecordNotificationSent увеличивает счётчик доставленных уведомлений.
func (m *MarketplaceMetrics) RecordNotificationSent() {
	m.notificationsSent.Inc()
}

// RecordNotificationFailed увеличивает счётчик недоставленных уведомлений.
func (m *MarketplaceMetrics) RecordNotificationFailed() {
	m.notificationsFailed.Inc()
}

// RecordNotificationStarted увеличивает количество уведомлений в полёте.
func (m *MarketplaceMetrics) RecordNotificationStarted() {
	m.notificationsInFlight.Inc()
}

// RecordNotificationFinished уменьшает количество уведомлений в полёте.
func (m *MarketplaceMetrics) RecordNotificationFinished() {
	m.notificationsInFlight.Dec()
}
