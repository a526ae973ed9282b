// Package queue publishes plan lifecycle events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
)

// RoutingKeyPlanCreated is used for every newly stored plan.
const RoutingKeyPlanCreated = "plan.created"

// publishChannel is the subset of *amqp.Channel the publisher needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// PlanCreatedEvent is the message body published for a new plan.
type PlanCreatedEvent struct {
	PlanID            string            `json:"plan_id"`
	CreatedAt         time.Time         `json:"created_at"`
	Routes            []RouteAssignment `json:"routes"`
	UnmatchedRouteIDs []int             `json:"unmatched_route_ids"`
	TotalDistance     float64           `json:"total_distance"`
	TotalTime         float64           `json:"total_time"`
	Warnings          []domain.Warning  `json:"warnings,omitempty"`
}

// RouteAssignment summarizes one route for downstream dispatch.
type RouteAssignment struct {
	RouteID    int     `json:"route_id"`
	VehicleID  *int64  `json:"vehicle_id"`
	RequestIDs []int64 `json:"request_ids"`
}

func NewPlanCreatedEvent(plan *domain.OptimizationResult) PlanCreatedEvent {
	evt := PlanCreatedEvent{
		PlanID:            plan.PlanID,
		CreatedAt:         plan.CreatedAt,
		Routes:            make([]RouteAssignment, 0, len(plan.Routes)),
		UnmatchedRouteIDs: plan.UnmatchedRouteIDs,
		TotalDistance:     plan.TotalDistance,
		TotalTime:         plan.TotalTime,
		Warnings:          plan.Warnings,
	}
	for _, r := range plan.Routes {
		ids := make([]int64, len(r.Requests))
		for i, req := range r.Requests {
			ids[i] = req.ID
		}
		evt.Routes = append(evt.Routes, RouteAssignment{RouteID: r.RouteID, VehicleID: r.VehicleID, RequestIDs: ids})
	}
	return evt
}

// RabbitPlanPublisher implements ports.PlanPublisher over a topic exchange.
type RabbitPlanPublisher struct {
	conn     *amqp.Connection
	exchange string
	timeout  time.Duration

	mu sync.Mutex
	ch publishChannel
}

// DialRabbitPlanPublisher connects to url and declares a durable topic exchange.
func DialRabbitPlanPublisher(url, exchange string) (*RabbitPlanPublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange %q: %w", exchange, err)
	}

	p := newRabbitPlanPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newRabbitPlanPublisher(ch publishChannel, exchange string) *RabbitPlanPublisher {
	return &RabbitPlanPublisher{ch: ch, exchange: exchange, timeout: 5 * time.Second}
}

// PublishPlan sends a persistent plan.created message.
func (p *RabbitPlanPublisher) PublishPlan(ctx context.Context, plan *domain.OptimizationResult) (err error) {
	defer obs.Time(ctx, "queue.PublishPlan")(&err)

	if plan == nil {
		return errors.New("publish plan: plan is nil")
	}

	body, err := json.Marshal(NewPlanCreatedEvent(plan))
	if err != nil {
		return fmt.Errorf("publish plan %s: encode: %w", plan.PlanID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return errors.New("rabbitmq: publish channel is not open")
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyPlanCreated, false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    plan.PlanID,
			Timestamp:    plan.CreatedAt,
			Type:         RoutingKeyPlanCreated,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish plan %s: %w", plan.PlanID, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *RabbitPlanPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
