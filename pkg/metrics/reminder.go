package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReminderMetrics 签退提醒链路的指标集合
type ReminderMetrics struct {
	RemindersScheduledTotal metric.Int64Counter
	RemindersSkippedTotal   metric.Int64Counter
	SMSSentTotal            metric.Int64Counter
	SMSSendDuration         metric.Float64Histogram
}

var (
	metrics *ReminderMetrics
	meter   = otel.Meter("presensia")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	m := &ReminderMetrics{}

	m.RemindersScheduledTotal, err = meter.Int64Counter(
		"checkout_reminders_scheduled_total",
		metric.WithDescription("Total number of checkout reminders scheduled"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return err
	}

	m.RemindersSkippedTotal, err = meter.Int64Counter(
		"checkout_reminders_skipped_total",
		metric.WithDescription("Total number of checkout reminders skipped"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return err
	}

	m.SMSSentTotal, err = meter.Int64Counter(
		"sms_sent_total",
		metric.WithDescription("Total number of SMS sent"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	m.SMSSendDuration, err = meter.Float64Histogram(
		"sms_send_duration_seconds",
		metric.WithDescription("Time spent sending SMS in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics = m
	return nil
}

// RecordReminderScheduled 记录一条提醒进入延迟队列
func RecordReminderScheduled(ctx context.Context, count int64) {
	if metrics == nil {
		return
	}
	metrics.RemindersScheduledTotal.Add(ctx, count)
}

// RecordReminderSkipped 记录一条提醒被跳过
func RecordReminderSkipped(ctx context.Context, reason string) {
	if metrics == nil {
		return
	}
	metrics.RemindersSkippedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordSMSSent 记录短信发送结果
func RecordSMSSent(ctx context.Context, provider, status string, duration float64) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("status", status),
	}
	metrics.SMSSentTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.SMSSendDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
}
