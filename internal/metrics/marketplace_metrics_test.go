package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTestMetrics() *MarketplaceMetrics {
	return newMarketplaceMetricsWithRegisterer(prometheus.NewRegistry())
}

func TestNewMarketplaceMetrics(t *testing.T) {
	metrics := newTestMetrics()

	if metrics == nil {
		t.Fatal("newMarketplaceMetricsWithRegisterer should not return nil")
	}

	if metrics.purchasesTotal == nil {
		t.Error("purchasesTotal counter should not be nil")
	}

	if metrics.purchaseAmountMinor == nil {
		t.Error("purchaseAmountMinor counter should not be nil")
	}

	if metrics.purchaseConflicts == nil {
		t.Error("purchaseConflicts counter should not be nil")
	}

	if metrics.purchaseRejected == nil {
		t.Error("purchaseRejected counter vec should not be nil")
	}

	if metrics.purchaseDuration == nil {
		t.Error("purchaseDuration histogram should not be nil")
	}

	if metrics.registrationsTotal == nil {
		t.Error("registrationsTotal counter vec should not be nil")
	}

	if metrics.wishlistAdded == nil {
		t.Error("wishlistAdded counter should not be nil")
	}

	if metrics.wishlistRemoved == nil {
		t.Error("wishlistRemoved counter should not be nil")
	}

	if metrics.notificationsSent == nil {
		t.Error("notificationsSent counter should not be nil")
	}

	if metrics.notificationsFailed == nil {
		t.Error("notificationsFailed counter should not be nil")
	}

	if metrics.notificationsInFlight == nil {
		t.Error("notificationsInFlight gauge should not be nil")
	}
}

func TestRecordPurchase(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordPurchase(100)
	metrics.RecordPurchase(250)

	metric := &dto.Metric{}
	if err := metrics.purchasesTotal.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 purchases, got %f", metric.Counter.GetValue())
	}

	amountMetric := &dto.Metric{}
	if err := metrics.purchaseAmountMinor.Write(amountMetric); err != nil {
		t.Fatalf("failed to write amount metric: %v", err)
	}

	if amountMetric.Counter.GetValue() != 350.0 {
		t.Errorf("expected amount 350.0, got %f", amountMetric.Counter.GetValue())
	}
}

func TestRecordPurchase_ZeroAmount(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordPurchase(0)

	metric := &dto.Metric{}
	if err := metrics.purchasesTotal.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 purchase, got %f", metric.Counter.GetValue())
	}

	amountMetric := &dto.Metric{}
	if err := metrics.purchaseAmountMinor.Write(amountMetric); err != nil {
		t.Fatalf("failed to write amount metric: %v", err)
	}

	if amountMetric.Counter.GetValue() != 0.0 {
		t.Errorf("expected amount 0.0, got %f", amountMetric.Counter.GetValue())
	}
}

func TestRecordPurchaseConflict(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordPurchaseConflict()
	metrics.RecordPurchaseConflict()

	metric := &dto.Metric{}
	if err := metrics.purchaseConflicts.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 conflicts, got %f", metric.Counter.GetValue())
	}
}

func TestRecordPurchaseRejected(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordPurchaseRejected("not_found")
	metrics.RecordPurchaseRejected("not_found")
	metrics.RecordPurchaseRejected("unauthorized")

	metric := &dto.Metric{}
	if err := metrics.purchaseRejected.WithLabelValues("not_found").Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 not_found rejections, got %f", metric.Counter.GetValue())
	}

	otherMetric := &dto.Metric{}
	if err := metrics.purchaseRejected.WithLabelValues("unauthorized").Write(otherMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if otherMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 unauthorized rejection, got %f", otherMetric.Counter.GetValue())
	}
}

func TestRecordPurchaseDuration(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordPurchaseDuration(100 * time.Millisecond)
	metrics.RecordPurchaseDuration(500 * time.Millisecond)
	metrics.RecordPurchaseDuration(1 * time.Second)

	metric := &dto.Metric{}
	if err := metrics.purchaseDuration.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("expected 3 samples, got %d", metric.Histogram.GetSampleCount())
	}

	// Check sum is approximately correct (0.1 + 0.5 + 1.0 = 1.6)
	sum := metric.Histogram.GetSampleSum()
	if sum < 1.5 || sum > 1.7 {
		t.Errorf("expected sum around 1.6, got %f", sum)
	}
}

func TestRecordRegistration(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordRegistration("client")
	metrics.RecordRegistration("client")
	metrics.RecordRegistration("seller")

	metric := &dto.Metric{}
	if err := metrics.registrationsTotal.WithLabelValues("client").Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 client registrations, got %f", metric.Counter.GetValue())
	}

	sellerMetric := &dto.Metric{}
	if err := metrics.registrationsTotal.WithLabelValues("seller").Write(sellerMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if sellerMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 seller registration, got %f", sellerMetric.Counter.GetValue())
	}
}

func TestRecordWishlist(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordWishlistAdded()
	metrics.RecordWishlistAdded()
	metrics.RecordWishlistRemoved()

	addedMetric := &dto.Metric{}
	if err := metrics.wishlistAdded.Write(addedMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if addedMetric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 additions, got %f", addedMetric.Counter.GetValue())
	}

	removedMetric := &dto.Metric{}
	if err := metrics.wishlistRemoved.Write(removedMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if removedMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 removal, got %f", removedMetric.Counter.GetValue())
	}
}

func TestNotificationLifecycle(t *testing.T) {
	metrics := newTestMetrics()

	metrics.RecordNotificationStarted() // in flight: 1
	metrics.RecordNotificationStarted() // in flight: 2
	metrics.RecordNotificationStarted() // in flight: 3

	metrics.RecordNotificationSent()
	metrics.RecordNotificationFinished() // in flight: 2
	metrics.RecordNotificationFailed()
	metrics.RecordNotificationFinished() // in flight: 1

	gaugeMetric := &dto.Metric{}
	if err := metrics.notificationsInFlight.Write(gaugeMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if gaugeMetric.Gauge.GetValue() != 1.0 {
		t.Errorf("expected 1 notification in flight, got %f", gaugeMetric.Gauge.GetValue())
	}

	sentMetric := &dto.Metric{}
	if err := metrics.notificationsSent.Write(sentMetric); err != nil {
		t.Fatalf("failed to write sent metric: %v", err)
	}

	if sentMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 sent notification, got %f", sentMetric.Counter.GetValue())
	}

	failedMetric := &dto.Metric{}
	if err := metrics.notificationsFailed.Write(failedMetric); err != nil {
		t.Fatalf("failed to write failed metric: %v", err)
	}

	if failedMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 failed notification, got %f", failedMetric.Counter.GetValue())
	}
}

// Повторная регистрация того же имени возвращает уже зарегистрированный
// коллектор, а не паникует.
func TestRegisterCounter_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := prometheus.CounterOpts{
		Name: "test_duplicate_counter_total",
		Help: "Test counter",
	}

	first := registerCounter(reg, opts)
	second := registerCounter(reg, opts)

	if first != second {
		t.Error("expected the existing collector to be returned on duplicate registration")
	}

	first.Inc()

	metric := &dto.Metric{}
	if err := second.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected shared counter value 1.0, got %f", metric.Counter.GetValue())
	}
}
