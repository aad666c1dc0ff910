package method

import (
	"fmt"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/configuration"
	"github.com/Dave4675/geosolver/numeric"
	"github.com/Dave4675/geosolver/selconstr"
	"github.com/Dave4675/geosolver/vector"
)

func varSetOf(c cluster.Cluster) cluster.VarSet {
	return cluster.NewVarSet(c.Vars())
}

// Merge1C merges a singleton Rigid (a bare point) with any other cluster
// that already contains it. The non-singleton input determines the
// resulting frame. Never overconstrained: the point contributes no new
// information (spec §4.2.4 "Point + cluster").
type Merge1C struct {
	base
	point, other cluster.Cluster
}

// NewMerge1C constructs a Merge1C. point must be a single-variable Rigid
// whose variable is already a member of other.
func NewMerge1C(point, other cluster.Cluster, out cluster.Cluster) (*Merge1C, error) {
	if len(point.Vars()) != 1 {
		return nil, fmt.Errorf("%w: Merge1C point input must have exactly one variable", ErrUnderconstrained)
	}
	return &Merge1C{
		base:  base{inputs: []cluster.Cluster{point, other}, outputs: []cluster.Cluster{out}, overconstrained: false, consistent: true},
		point: point, other: other,
	}, nil
}

func (m *Merge1C) String() string {
	return fmt.Sprintf("merge1C(%s+%s->%s)", m.point, m.other, m.outputs[0])
}

func (m *Merge1C) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[1].Copy()}, nil
}

// Merge2C structurally-overconstrained-merges two Rigids sharing at least
// two points. c1 is the frame-defining input (spec §4.2.4 "Two-cluster").
type Merge2C struct {
	base
	c1, c2 cluster.Cluster
}

// NewMerge2C constructs a Merge2C. Returns ErrUnderconstrained if c1 and
// c2 share no variable; the at-least-two-points condition is checked by the
// search rule that selects the pair, not here.
func NewMerge2C(c1, c2 cluster.Cluster, out cluster.Cluster) (*Merge2C, error) {
	shared := varSetOf(c1).Intersect(varSetOf(c2))
	if len(shared) < 1 {
		return nil, fmt.Errorf("%w: Merge2C inputs share no variables", ErrUnderconstrained)
	}
	return &Merge2C{
		base:  base{inputs: []cluster.Cluster{c1, c2}, outputs: []cluster.Cluster{out}, overconstrained: true, consistent: true},
		c1: c1, c2: c2,
	}, nil
}

func (m *Merge2C) String() string {
	return fmt.Sprintf("merge2C(%s+%s->%s)", m.c1, m.c2, m.outputs[0])
}

func (m *Merge2C) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].Merge2D(inputs[1])}, nil
}

// MergeCH absorbs a Hedgehog into a Rigid that already contains every one
// of its spokes. Always overconstrained: the hog only confirms angles the
// rigid already fixes (spec §4.2.1 "Absorb-hog").
type MergeCH struct {
	base
	c, hog cluster.Cluster
}

func NewMergeCH(c *cluster.Rigid, hog *cluster.Hedgehog, out *cluster.Rigid) (*MergeCH, error) {
	if !cluster.NewVarSet(hog.XVars()).SubsetOf(varSetOf(c)) {
		return nil, fmt.Errorf("%w: MergeCH hog spokes are not all in the rigid", ErrUnderconstrained)
	}
	return &MergeCH{
		base:  base{inputs: []cluster.Cluster{c, hog}, outputs: []cluster.Cluster{out}, overconstrained: true, consistent: true},
		c: c, hog: hog,
	}, nil
}

func (m *MergeCH) String() string {
	return fmt.Sprintf("mergeCH(%s+%s->%s)", m.c, m.hog, m.outputs[0])
}

func (m *MergeCH) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].Copy()}, nil
}

// MergeBH absorbs a Hedgehog into a Balloon that already contains every one
// of its spokes. Always overconstrained (spec §4.2.3 "Absorb-hog").
type MergeBH struct {
	base
	balloon, hog cluster.Cluster
}

func NewMergeBH(balloon *cluster.Balloon, hog *cluster.Hedgehog, out *cluster.Balloon) (*MergeBH, error) {
	if !cluster.NewVarSet(hog.XVars()).SubsetOf(varSetOf(balloon)) {
		return nil, fmt.Errorf("%w: MergeBH hog spokes are not all in the balloon", ErrUnderconstrained)
	}
	return &MergeBH{
		base:    base{inputs: []cluster.Cluster{balloon, hog}, outputs: []cluster.Cluster{out}, overconstrained: true, consistent: true},
		balloon: balloon, hog: hog,
	}, nil
}

func (m *MergeBH) String() string {
	return fmt.Sprintf("mergeBH(%s+%s->%s)", m.balloon, m.hog, m.outputs[0])
}

func (m *MergeBH) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].Copy()}, nil
}

// Merge3C merges three Rigids that pairwise share exactly one distinct
// point, via solve_ddd on the triangle those three points form (spec
// §4.2.4 "Three-cluster triangle"). c1 is the frame-defining input.
type Merge3C struct {
	base
	c1, c2, c3   cluster.Cluster
	v1, v2, v3   cluster.Var
}

// NewMerge3C constructs a Merge3C. v1 is the point shared by c1&c2 only,
// v2 the point shared by c1&c3 only, v3 the point shared by c2&c3 only.
// Flags overconstrained when any pairwise or triple-wise share exceeds the
// minimum, and returns ErrUnderconstrained if any required share is empty.
func NewMerge3C(c1, c2, c3 cluster.Cluster, out cluster.Cluster) (*Merge3C, error) {
	s1, s2, s3 := varSetOf(c1), varSetOf(c2), varSetOf(c3)
	shared12 := s1.Intersect(s2)
	shared13 := s1.Intersect(s3)
	shared23 := s2.Intersect(s3)
	shared1 := shared12.Union(shared13)
	shared2 := shared12.Union(shared23)
	shared3 := shared13.Union(shared23)

	if len(shared12) < 1 {
		return nil, fmt.Errorf("%w: Merge3C c1,c2 share no point", ErrUnderconstrained)
	}
	if len(shared13) < 1 {
		return nil, fmt.Errorf("%w: Merge3C c1,c3 share no point", ErrUnderconstrained)
	}
	if len(shared23) < 1 {
		return nil, fmt.Errorf("%w: Merge3C c2,c3 share no point", ErrUnderconstrained)
	}
	if len(shared1) < 2 {
		return nil, fmt.Errorf("%w: Merge3C c1 underconstrained", ErrUnderconstrained)
	}
	if len(shared2) < 2 {
		return nil, fmt.Errorf("%w: Merge3C c2 underconstrained", ErrUnderconstrained)
	}
	if len(shared3) < 2 {
		return nil, fmt.Errorf("%w: Merge3C c3 underconstrained", ErrUnderconstrained)
	}
	overconstrained := len(shared12) > 1 || len(shared13) > 1 || len(shared23) > 1 ||
		len(shared1) > 2 || len(shared2) > 2 || len(shared3) > 2

	v1 := shared12.Sub(s3).Slice()[0]
	v2 := shared13.Sub(s2).Slice()[0]
	v3 := shared23.Sub(s1).Slice()[0]

	return &Merge3C{
		base: base{inputs: []cluster.Cluster{c1, c2, c3}, outputs: []cluster.Cluster{out}, overconstrained: overconstrained, consistent: true},
		c1: c1, c2: c2, c3: c3, v1: v1, v2: v2, v3: v3,
	}, nil
}

func (m *Merge3C) String() string {
	return fmt.Sprintf("merge3C(%s+%s+%s->%s)", m.c1, m.c2, m.c3, m.outputs[0])
}

func (m *Merge3C) PrototypeConstraints() []selconstr.Constraint {
	return []selconstr.Constraint{
		selconstr.NotCounterClockwiseConstraint{V1: m.v1, V2: m.v2, V3: m.v3},
		selconstr.NotClockwiseConstraint{V1: m.v1, V2: m.v2, V3: m.v3},
	}
}

func (m *Merge3C) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	c1, c2, c3 := inputs[0], inputs[1], inputs[2]
	p11, p21 := c1.MustGet(m.v1), c1.MustGet(m.v2)
	d12 := vector.Distance2P(p11, p21)
	p23, p33 := c3.MustGet(m.v2), c3.MustGet(m.v3)
	d23 := vector.Distance2P(p23, p33)
	p32, p12 := c2.MustGet(m.v3), c2.MustGet(m.v1)
	d31 := vector.Distance2P(p32, p12)

	solutions := numeric.SolveDDD(m.v1, m.v2, m.v3, d12, d23, d31)
	out := make([]*configuration.Configuration, 0, len(solutions))
	for _, s := range solutions {
		out = append(out, c1.Merge2D(s).Merge2D(c2).Merge2D(c3))
	}
	return out, nil
}

// MergeCHC merges two Rigids both containing a Hedgehog's center, one
// spoke coming from each, via solve_dad (spec §4.2.4 "Cluster-Hog-Cluster").
// c1 is the frame-defining input.
type MergeCHC struct {
	base
	c1, hog, c2 cluster.Cluster
	v1, v2, v3  cluster.Var
}

// NewMergeCHC constructs a MergeCHC. hog.CVar() must be a member of both c1
// and c2's variable sets.
func NewMergeCHC(c1 cluster.Cluster, hog *cluster.Hedgehog, c2 cluster.Cluster, out cluster.Cluster) (*MergeCHC, error) {
	s1, s2 := varSetOf(c1), varSetOf(c2)
	if !s1.Contains(hog.CVar()) || !s2.Contains(hog.CVar()) {
		return nil, fmt.Errorf("%w: MergeCHC hog center must be in both clusters", ErrHogCenterMismatch)
	}
	hx := cluster.NewVarSet(hog.XVars())
	shared12 := s1.Intersect(s2)
	shared1h := s1.Intersect(hx)
	shared2h := s2.Intersect(hx)
	shared1 := shared12.Union(shared1h)
	shared2 := shared12.Union(shared2h)
	sharedh := shared1h.Union(shared2h)
	if len(shared12) < 1 || len(shared1h) < 1 || len(shared2h) < 1 || len(shared1) < 2 || len(shared2) < 2 || len(sharedh) < 2 {
		return nil, fmt.Errorf("%w: MergeCHC inputs underconstrained", ErrUnderconstrained)
	}
	overconstrained := len(shared12) > 1 || len(shared1h) > 1 || len(shared2h) > 1 || len(shared1) > 2 || len(shared2) > 2

	v1 := shared1h.Slice()[0]
	v3 := shared2h.Slice()[0]

	return &MergeCHC{
		base: base{inputs: []cluster.Cluster{c1, hog, c2}, outputs: []cluster.Cluster{out}, overconstrained: overconstrained, consistent: true},
		c1: c1, hog: hog, c2: c2, v1: v1, v2: hog.CVar(), v3: v3,
	}, nil
}

func (m *MergeCHC) String() string {
	return fmt.Sprintf("mergeCHC(%s+%s+%s->%s)", m.c1, m.hog, m.c2, m.outputs[0])
}

func (m *MergeCHC) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	conf1, confh, conf2 := inputs[0], inputs[1], inputs[2]
	a123 := vector.Angle3P(confh.MustGet(m.v1), confh.MustGet(m.v2), confh.MustGet(m.v3))
	d12 := vector.Distance2P(conf1.MustGet(m.v1), conf1.MustGet(m.v2))
	d23 := vector.Distance2P(conf2.MustGet(m.v3), conf2.MustGet(m.v2))

	solutions := numeric.SolveDAD(m.v1, m.v2, m.v3, d12, a123, d23)
	out := make([]*configuration.Configuration, 0, len(solutions))
	for _, s := range solutions {
		out = append(out, conf1.Merge2D(s).Merge2D(conf2))
	}
	return out, nil
}

// MergeCCH merges two Rigids sharing one point, with a Hedgehog centered in
// exactly one of them providing the angle at its center, via solve_add
// (spec §4.2.4 "Cluster-Cluster-Hog").
type MergeCCH struct {
	base
	c1, c2, hog cluster.Cluster
	v1, v2, v3  cluster.Var
}

// NewMergeCCH constructs a MergeCCH. hog.CVar() must be in exactly one of
// c1, c2 (c1 by convention once normalized, but the constructor accepts
// either order and normalizes internally).
func NewMergeCCH(c1, c2 cluster.Cluster, hog *cluster.Hedgehog, out cluster.Cluster) (*MergeCCH, error) {
	in1, in2 := c1, c2
	if !varSetOf(c1).Contains(hog.CVar()) {
		if !varSetOf(c2).Contains(hog.CVar()) {
			return nil, fmt.Errorf("%w: MergeCCH hog center is in neither cluster", ErrHogCenterMismatch)
		}
		in1, in2 = c2, c1
	} else if varSetOf(c2).Contains(hog.CVar()) {
		return nil, fmt.Errorf("%w: MergeCCH hog center is in both clusters", ErrHogCenterMismatch)
	}

	s1, s2 := varSetOf(in1), varSetOf(in2)
	hx := cluster.NewVarSet(hog.XVars())
	shared12 := s1.Intersect(s2)
	shared1h := s1.Intersect(hx)
	shared2h := s2.Intersect(hx)
	shared1 := shared12.Union(shared1h)
	shared2 := shared12.Union(shared2h)
	sharedh := shared1h.Union(shared2h)
	if len(shared12) < 1 || len(shared1h) < 1 || len(shared2h) < 1 || len(shared1) < 1 || len(shared2) < 2 || len(sharedh) < 2 {
		return nil, fmt.Errorf("%w: MergeCCH inputs underconstrained", ErrUnderconstrained)
	}
	overconstrained := len(shared12) > 1 || len(shared1h) > 1 || len(shared2h) > 2 || len(shared1) > 1 || len(shared2) > 2 || len(sharedh) > 2

	v1 := hog.CVar()
	candidates2 := shared1h.Intersect(s2)
	v2 := candidates2.Slice()[0]
	candidates3 := hx.Intersect(s2).Sub(cluster.NewVarSet([]cluster.Var{v1, v2}))
	v3 := candidates3.Slice()[0]

	return &MergeCCH{
		base: base{inputs: []cluster.Cluster{c1, c2, hog}, outputs: []cluster.Cluster{out}, overconstrained: overconstrained, consistent: true},
		c1: c1, c2: c2, hog: hog, v1: v1, v2: v2, v3: v3,
	}, nil
}

func (m *MergeCCH) String() string {
	return fmt.Sprintf("mergeCCH(%s+%s+%s->%s)", m.c1, m.c2, m.hog, m.outputs[0])
}

func (m *MergeCCH) PrototypeConstraints() []selconstr.Constraint {
	return []selconstr.Constraint{
		selconstr.NotAcuteConstraint{P: m.v2, Q: m.v3, R: m.v1},
		selconstr.NotObtuseConstraint{P: m.v2, Q: m.v3, R: m.v1},
	}
}

func (m *MergeCCH) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	// inputs are positionally [c1, c2, hog]; identify which physical input
	// holds the hog's center to read the angle and distances correctly.
	conf1, conf2, confh := inputs[0], inputs[1], inputs[2]
	c1IsCenter := varSetOf(m.c1).Contains(m.v1)
	centerConf, otherConf := conf1, conf2
	if !c1IsCenter {
		centerConf, otherConf = conf2, conf1
	}

	a312 := vector.Angle3P(confh.MustGet(m.v3), confh.MustGet(m.v1), confh.MustGet(m.v2))
	d12 := vector.Distance2P(centerConf.MustGet(m.v1), centerConf.MustGet(m.v2))
	d23 := vector.Distance2P(otherConf.MustGet(m.v2), otherConf.MustGet(m.v3))

	solutions := numeric.SolveADD(m.v1, m.v2, m.v3, a312, d12, d23)
	out := make([]*configuration.Configuration, 0, len(solutions))
	for _, s := range solutions {
		out = append(out, conf1.Merge2D(s).Merge2D(conf2))
	}
	return out, nil
}

// BalloonFromHogs derives a 3-point Balloon from two Hedgehogs with
// distinct centers sharing a spoke, via solve_ada (spec §4.2.4
// "BalloonFromHogs").
type BalloonFromHogs struct {
	base
	hog1, hog2 cluster.Cluster
	v1, v2, v3 cluster.Var
}

// NewBalloonFromHogs constructs a BalloonFromHogs. hog1 and hog2 must have
// distinct centers and share at least one spoke.
func NewBalloonFromHogs(hog1, hog2 *cluster.Hedgehog, out *cluster.Balloon) (*BalloonFromHogs, error) {
	if hog1.CVar() == hog2.CVar() {
		return nil, fmt.Errorf("%w: BalloonFromHogs hogs share a center", ErrHogCentersDiffer)
	}
	shared := cluster.NewVarSet(hog1.XVars()).Intersect(cluster.NewVarSet(hog2.XVars()))
	if len(shared) < 1 {
		return nil, fmt.Errorf("%w: BalloonFromHogs hogs share no spoke", ErrUnderconstrained)
	}
	v3 := shared.Sub(cluster.NewVarSet([]cluster.Var{hog1.CVar(), hog2.CVar()})).Slice()[0]
	return &BalloonFromHogs{
		base: base{inputs: []cluster.Cluster{hog1, hog2}, outputs: []cluster.Cluster{out}, overconstrained: false, consistent: true},
		hog1: hog1, hog2: hog2, v1: hog1.CVar(), v2: hog2.CVar(), v3: v3,
	}, nil
}

func (m *BalloonFromHogs) String() string {
	return fmt.Sprintf("hog2balloon(%s+%s->%s)", m.hog1, m.hog2, m.outputs[0])
}

func (m *BalloonFromHogs) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	conf1, conf2 := inputs[0], inputs[1]
	a312 := vector.Angle3P(conf1.MustGet(m.v3), conf1.MustGet(m.v1), conf1.MustGet(m.v2))
	const d12 = 1.0
	a123 := vector.Angle3P(conf2.MustGet(m.v1), conf2.MustGet(m.v2), conf2.MustGet(m.v3))
	return numeric.SolveADA(m.v1, m.v2, m.v3, a312, d12, a123), nil
}

// BalloonMerge merges two Balloons sharing at least two points via
// similarity alignment (spec §4.2.3 "Balloon-balloon merge").
type BalloonMerge struct {
	base
	in1, in2 cluster.Cluster
}

func NewBalloonMerge(in1, in2 *cluster.Balloon, out *cluster.Balloon) (*BalloonMerge, error) {
	shared := varSetOf(in1).Intersect(varSetOf(in2))
	if len(shared) < 2 {
		return nil, fmt.Errorf("%w: BalloonMerge inputs share fewer than two points", ErrUnderconstrained)
	}
	return &BalloonMerge{
		base: base{inputs: []cluster.Cluster{in1, in2}, outputs: []cluster.Cluster{out}, overconstrained: len(shared) > 2, consistent: true},
		in1: in1, in2: in2,
	}, nil
}

func (m *BalloonMerge) String() string {
	return fmt.Sprintf("balloonmerge(%s+%s->%s)", m.in1, m.in2, m.outputs[0])
}

func (m *BalloonMerge) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	return []*configuration.Configuration{inputs[0].MergeScale2D(inputs[1])}, nil
}

// BalloonRigidMerge merges a Balloon and a Rigid sharing at least two
// points into a Rigid, fixing the balloon's free scale (spec §4.2.1/§4.2.3
// "Balloon-cluster merge").
type BalloonRigidMerge struct {
	base
	balloon, cluster_ cluster.Cluster
}

func NewBalloonRigidMerge(balloon *cluster.Balloon, c *cluster.Rigid, out *cluster.Rigid) (*BalloonRigidMerge, error) {
	shared := varSetOf(balloon).Intersect(varSetOf(c))
	if len(shared) < 2 {
		return nil, fmt.Errorf("%w: BalloonRigidMerge inputs share fewer than two points", ErrUnderconstrained)
	}
	return &BalloonRigidMerge{
		base:    base{inputs: []cluster.Cluster{balloon, c}, outputs: []cluster.Cluster{out}, overconstrained: len(shared) > 2, consistent: true},
		balloon: balloon, cluster_: c,
	}, nil
}

func (m *BalloonRigidMerge) String() string {
	return fmt.Sprintf("balloonclustermerge(%s+%s->%s)", m.balloon, m.cluster_, m.outputs[0])
}

func (m *BalloonRigidMerge) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	balloon, rigid := inputs[0], inputs[1]
	return []*configuration.Configuration{rigid.MergeScale2D(balloon)}, nil
}

// MergeHogs merges two Hedgehogs with the same center and overlapping
// spokes into a single hedgehog spanning their union (spec §4.2.5).
type MergeHogs struct {
	base
	hog1, hog2 *cluster.Hedgehog
	shared     cluster.Var
}

func NewMergeHogs(hog1, hog2 *cluster.Hedgehog, out *cluster.Hedgehog) (*MergeHogs, error) {
	if hog1.CVar() != hog2.CVar() {
		return nil, fmt.Errorf("%w: MergeHogs centers differ", ErrHogCentersDiffer)
	}
	shared := cluster.NewVarSet(hog1.XVars()).Intersect(cluster.NewVarSet(hog2.XVars()))
	if len(shared) < 1 {
		return nil, fmt.Errorf("%w: MergeHogs hogs share no spoke", ErrUnderconstrained)
	}
	return &MergeHogs{
		base:   base{inputs: []cluster.Cluster{hog1, hog2}, outputs: []cluster.Cluster{out}, overconstrained: len(shared) > 1, consistent: true},
		hog1: hog1, hog2: hog2, shared: shared.Slice()[0],
	}, nil
}

func (m *MergeHogs) String() string {
	return fmt.Sprintf("mergeHH(%s+%s->%s)", m.hog1, m.hog2, m.outputs[0])
}

func (m *MergeHogs) Execute(inputs []*configuration.Configuration) ([]*configuration.Configuration, error) {
	conf1, conf2 := inputs[0], inputs[1]
	return []*configuration.Configuration{conf1.MergeScale2D(conf2, m.hog1.CVar(), m.shared)}, nil
}
