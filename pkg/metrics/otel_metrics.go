package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 考勤相关指标
	CheckInTotal       metric.Int64Counter
	CheckOutTotal      metric.Int64Counter
	TransitionRejected metric.Int64Counter

	// 围栏判定指标
	MembershipDistance metric.Float64Histogram

	// 位置上报指标
	PingIngestedTotal metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("onsite")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.CheckInTotal, err = meter.Int64Counter(
		"attendance_check_in_total",
		metric.WithDescription("Total number of committed check-ins"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	metrics.CheckOutTotal, err = meter.Int64Counter(
		"attendance_check_out_total",
		metric.WithDescription("Total number of committed check-outs"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	metrics.TransitionRejected, err = meter.Int64Counter(
		"attendance_transition_rejected_total",
		metric.WithDescription("Total number of rejected attendance transitions"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return err
	}

	metrics.MembershipDistance, err = meter.Float64Histogram(
		"geofence_membership_distance_meters",
		metric.WithDescription("Distance from fence center at evaluation time"),
		metric.WithUnit("m"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 200, 500, 1000, 5000, 20000),
	)
	if err != nil {
		return err
	}

	metrics.PingIngestedTotal, err = meter.Int64Counter(
		"location_ping_ingested_total",
		metric.WithDescription("Total number of ingested location pings"),
		metric.WithUnit("{ping}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例，未初始化时返回 nil，调用方需判空
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordTransition 记录一次成功的考勤转移
func (m *OTelMetrics) RecordTransition(ctx context.Context, action string) {
	counter := m.CheckInTotal
	if action == "check_out" {
		counter = m.CheckOutTotal
	}
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}

// RecordRejection 记录一次被拒绝的考勤转移
func (m *OTelMetrics) RecordRejection(ctx context.Context, action, code string) {
	m.TransitionRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("code", code),
	))
}

// RecordMembership 记录一次围栏判定的距离与结果
func (m *OTelMetrics) RecordMembership(ctx context.Context, distanceM float64, inside bool) {
	m.MembershipDistance.Record(ctx, distanceM, metric.WithAttributes(
		attribute.Bool("inside", inside),
	))
}

// RecordPingIngested 记录一次位置上报
func (m *OTelMetrics) RecordPingIngested(ctx context.Context, inside bool) {
	m.PingIngestedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("inside", inside),
	))
}
