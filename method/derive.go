package method

import (
	"fmt"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
)

// Rigid2Hog derives a Hedgehog centered at cvar from a Rigid that contains
// cvar and at least two other points, by selecting down to the center and
// its chosen spokes (spec §4.2.2 "Rigid-to-hedgehog"). Never
// overconstrained: a hedgehog retains strictly less information than the
// rigid it comes from.
type Rigid2Hog struct {
	base
	rigid cluster.Cluster
}

// NewRigid2Hog constructs a Rigid2Hog. out's variables must already be a
// subset of rigid's.
func NewRigid2Hog(rigid *cluster.Rigid, out *cluster.Hedgehog) (*Rigid2Hog, error) {
	if !cluster.NewVarSet(out.Vars()).SubsetOf(cluster.NewVarSet(rigid.Vars())) {
		return nil, fmt.Errorf("%w: Rigid2Hog output vars are not a subset of the rigid", ErrUnderconstrained)
	}
	return &Rigid2Hog{
		base:  base{inputs: []cluster.Cluster{rigid}, outputs: []cluster.Cluster{out}, overconstrained: false, consistent: true},
		rigid: rigid,
	}, nil
}

func (m *Rigid2Hog) String() string {
	return fmt.Sprintf("rigid2hog(%s->%s)", m.rigid, m.outputs[0])
}

func (m *Rigid2Hog) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].Select(m.outputs[0].Vars())}, nil
}

// Balloon2Hog derives a Hedgehog centered at cvar from a Balloon that
// contains cvar and at least two other points (spec §4.2.2
// "Balloon-to-hedgehog"). Never overconstrained, for the same reason as
// Rigid2Hog.
type Balloon2Hog struct {
	base
	balloon cluster.Cluster
}

// NewBalloon2Hog constructs a Balloon2Hog. out's variables must already be
// a subset of balloon's.
func NewBalloon2Hog(balloon *cluster.Balloon, out *cluster.Hedgehog) (*Balloon2Hog, error) {
	if !cluster.NewVarSet(out.Vars()).SubsetOf(cluster.NewVarSet(balloon.Vars())) {
		return nil, fmt.Errorf("%w: Balloon2Hog output vars are not a subset of the balloon", ErrUnderconstrained)
	}
	return &Balloon2Hog{
		base:    base{inputs: []cluster.Cluster{balloon}, outputs: []cluster.Cluster{out}, overconstrained: false, consistent: true},
		balloon: balloon,
	}, nil
}

func (m *Balloon2Hog) String() string {
	return fmt.Sprintf("balloon2hog(%s->%s)", m.balloon, m.outputs[0])
}

func (m *Balloon2Hog) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].Select(m.outputs[0].Vars())}, nil
}

// SubHog derives a smaller Hedgehog, sharing the same center, from a larger
// one by dropping spokes (spec §4.2.2 "Hedgehog restriction"). Used by the
// search engine to normalize a hedgehog down to exactly the spokes a
// candidate merge rule needs. Never overconstrained.
type SubHog struct {
	base
	hog cluster.Cluster
}

// NewSubHog constructs a SubHog. out must share hog's center and have
// spokes that are a subset of hog's.
func NewSubHog(hog *cluster.Hedgehog, out *cluster.Hedgehog) (*SubHog, error) {
	if hog.CVar() != out.CVar() {
		return nil, fmt.Errorf("%w: SubHog output must share the input's center", ErrHogCenterMismatch)
	}
	if !cluster.NewVarSet(out.XVars()).SubsetOf(cluster.NewVarSet(hog.XVars())) {
		return nil, fmt.Errorf("%w: SubHog output spokes are not a subset of the input's", ErrUnderconstrained)
	}
	return &SubHog{
		base: base{inputs: []cluster.Cluster{hog}, outputs: []cluster.Cluster{out}, overconstrained: false, consistent: true},
		hog:  hog,
	}, nil
}

func (m *SubHog) String() string {
	return fmt.Sprintf("subhog(%s->%s)", m.hog, m.outputs[0])
}

func (m *SubHog) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].Select(m.outputs[0].Vars())}, nil
}
