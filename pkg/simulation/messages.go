package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	// ErrRejected is returned when the world actor refused a request.
	ErrRejected = errors.New("world rejected the request")
	// ErrUnknownFlock is returned for a flock index the world does not have.
	ErrUnknownFlock = errors.New("unknown flock")
)

// AllFlocks targets every flock of the world in a rules update.
const AllFlocks = -1

// Tick asks the world to advance every flock by dt. It does not wait.
func Tick(ctx context.Context, world *actor.PID, dt time.Duration) error {
	return actor.Tell(ctx, world, durationpb.New(dt))
}

// QueryStatistics returns the distance and speed statistics of every flock.
func QueryStatistics(ctx context.Context, world *actor.PID, timeout time.Duration) ([]FlockStatistics, error) {
	resp, err := actor.Ask(ctx, world, &emptypb.Empty{}, timeout)
	if err != nil {
		return nil, err
	}
	s, ok := resp.(*structpb.Struct)
	if !ok {
		return nil, fmt.Errorf("unexpected statistics reply %T", resp)
	}
	return decodeStatistics(s)
}

// UpdateRules validates rules locally, then broadcasts them to every flock.
func UpdateRules(ctx context.Context, world *actor.PID, rules flock.RuleParameters, timeout time.Duration) error {
	return UpdateFlockRules(ctx, world, AllFlocks, rules, timeout)
}

// UpdateFlockRules validates rules locally, then gives them to the flock at
// index target only. The other flocks keep their own rules.
func UpdateFlockRules(ctx context.Context, world *actor.PID, target int, rules flock.RuleParameters, timeout time.Duration) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	if target < AllFlocks {
		return fmt.Errorf("%w: flock %d", ErrUnknownFlock, target)
	}
	msg, err := encodeRules(rules)
	if err != nil {
		return err
	}
	if target != AllFlocks {
		msg.Fields["flock"] = structpb.NewNumberValue(float64(target))
	}
	resp, err := actor.Ask(ctx, world, msg, timeout)
	if err != nil {
		return err
	}
	return replyError(resp)
}

// Regenerate replaces every flock by a fresh one of n boids.
func Regenerate(ctx context.Context, world *actor.PID, n uint32, timeout time.Duration) error {
	resp, err := actor.Ask(ctx, world, wrapperspb.UInt32(n), timeout)
	if err != nil {
		return err
	}
	return replyError(resp)
}

func replyError(resp proto.Message) error {
	switch r := resp.(type) {
	case *emptypb.Empty:
		return nil
	case *wrapperspb.StringValue:
		return fmt.Errorf("%w: %s", ErrRejected, r.GetValue())
	default:
		return fmt.Errorf("unexpected reply %T", resp)
	}
}

// ---------------------------------------------------------------------
// Envelopes
// ---------------------------------------------------------------------

var ruleKeys = []string{"distance", "separationDistance", "separation", "alignment", "cohesion"}

func encodeRules(r flock.RuleParameters) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"distance":           r.Distance,
		"separationDistance": r.SeparationDistance,
		"separation":         r.Separation,
		"alignment":          r.Alignment,
		"cohesion":           r.Cohesion,
	})
}

func decodeRules(s *structpb.Struct) (flock.RuleParameters, error) {
	values := make([]float64, len(ruleKeys))
	for i, key := range ruleKeys {
		v, ok := s.GetFields()[key]
		if !ok {
			return flock.RuleParameters{}, fmt.Errorf("%w: missing %q", flock.ErrInvalidParameter, key)
		}
		if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
			return flock.RuleParameters{}, fmt.Errorf("%w: %q is not a number", flock.ErrInvalidParameter, key)
		}
		values[i] = v.GetNumberValue()
	}
	return flock.NewRuleParameters(values[0], values[1], values[2], values[3], values[4])
}

// decodeRuleTarget reads the optional "flock" key of a rules envelope.
func decodeRuleTarget(s *structpb.Struct) (int, error) {
	v, ok := s.GetFields()["flock"]
	if !ok {
		return AllFlocks, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue < 0 || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%w: %v is not a flock index", ErrUnknownFlock, v.AsInterface())
	}
	return int(n.NumberValue), nil
}

func encodeStatistics(stats []FlockStatistics) *structpb.Struct {
	list := make([]*structpb.Value, len(stats))
	for i, st := range stats {
		fields := map[string]*structpb.Value{
			"flock":         structpb.NewNumberValue(float64(st.Flock)),
			"size":          structpb.NewNumberValue(float64(st.Size)),
			"valid":         structpb.NewBoolValue(st.Valid),
			"distanceMean":  structpb.NewNumberValue(st.Distance.Mean),
			"distanceSigma": structpb.NewNumberValue(st.Distance.Sigma),
			"speedMean":     structpb.NewNumberValue(st.Speed.Mean),
			"speedSigma":    structpb.NewNumberValue(st.Speed.Sigma),
		}
		if rules, err := encodeRules(st.Rules); err == nil {
			fields["rules"] = structpb.NewStructValue(rules)
		}
		list[i] = structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"flocks": structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}
}

func decodeStatistics(s *structpb.Struct) ([]FlockStatistics, error) {
	flocks, ok := s.GetFields()["flocks"]
	if !ok {
		return nil, errors.New("statistics reply has no flocks")
	}
	values := flocks.GetListValue().GetValues()
	out := make([]FlockStatistics, len(values))
	for i, v := range values {
		f := v.GetStructValue().GetFields()
		out[i] = FlockStatistics{
			Flock:    int(f["flock"].GetNumberValue()),
			Size:     int(f["size"].GetNumberValue()),
			Valid:    f["valid"].GetBoolValue(),
			Distance: flock.Statistics{Mean: f["distanceMean"].GetNumberValue(), Sigma: f["distanceSigma"].GetNumberValue()},
			Speed:    flock.Statistics{Mean: f["speedMean"].GetNumberValue(), Sigma: f["speedSigma"].GetNumberValue()},
		}
		if r, ok := f["rules"]; ok {
			rules, err := decodeRules(r.GetStructValue())
			if err != nil {
				return nil, fmt.Errorf("flock %d: %w", i, err)
			}
			out[i].Rules = rules
		}
	}
	return out, nil
}
