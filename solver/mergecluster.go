package solver

import (
	"sort"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/method"
)

// overlappingRigids returns every top-level Rigid other than newcluster that
// shares at least one variable with it, keyed by structural key, together
// with the set of shared variables per key (spec §4.2.4's "overlap" map).
func (s *Solver) overlappingRigids(newcluster cluster.Cluster) ([]string, map[string]cluster.VarSet, map[string]*cluster.Rigid) {
	shared := make(map[string]cluster.VarSet)
	byKey := make(map[string]*cluster.Rigid)
	for _, v := range newcluster.Vars() {
		for _, c := range s.graph.ClustersWithVar(v) {
			r, ok := c.(*cluster.Rigid)
			if !ok || r.Key() == newcluster.Key() || !s.graph.IsSink(r.Key()) {
				continue
			}
			if shared[r.Key()] == nil {
				shared[r.Key()] = cluster.NewVarSet(nil)
				byKey[r.Key()] = r
			}
			shared[r.Key()][v] = struct{}{}
		}
	}
	order := make([]string, 0, len(shared))
	for k := range shared {
		order = append(order, k)
	}
	sort.Strings(order)
	return order, shared, byKey
}

// searchMergeFromCluster implements the three-cluster rewrite family (spec
// §4.2.4): point-cluster, two-cluster overconstrained, three-cluster
// triangle, and the three "merge with an angle" cluster-cluster-hog cases.
func (s *Solver) searchMergeFromCluster(newcluster *cluster.Rigid) (bool, error) {
	order, overlap, byKey := s.overlappingRigids(newcluster)

	// point-cluster merge
	for _, k := range order {
		if len(overlap[k]) != 1 {
			continue
		}
		other := byKey[k]
		switch {
		case len(other.Vars()) == 1:
			return true, s.mergeClusterPairLikePoint(other, newcluster)
		case len(newcluster.Vars()) == 1:
			return true, s.mergeClusterPairLikePoint(newcluster, other)
		}
	}

	// two-cluster merge, structurally overconstrained
	for _, k := range order {
		if len(overlap[k]) >= 2 {
			return true, s.mergeClusterPair(byKey[k], newcluster)
		}
	}

	// three-cluster triangle merge
	for i := 0; i < len(order); i++ {
		c1 := byKey[order[i]]
		for j := i + 1; j < len(order); j++ {
			c2 := byKey[order[j]]
			shared12 := cluster.NewVarSet(c1.Vars()).Intersect(cluster.NewVarSet(c2.Vars()))
			shared13 := cluster.NewVarSet(c1.Vars()).Intersect(cluster.NewVarSet(newcluster.Vars()))
			shared23 := cluster.NewVarSet(c2.Vars()).Intersect(cluster.NewVarSet(newcluster.Vars()))
			shared1 := shared12.Union(shared13)
			shared2 := shared12.Union(shared23)
			if len(shared1) == 2 && len(shared2) == 2 {
				return true, s.mergeClusterTriple(c1, c2, newcluster)
			}
		}
	}

	// merge with an angle, case 1: newcluster and one overlapping cluster
	// share a single point, and a hog at that point reaches into both.
	for _, k := range order {
		ovars := overlap[k].Slice()
		assertf(len(ovars) == 1, "searchMergeFromCluster: expected exactly one shared var, got %d", len(ovars))
		cvar := ovars[0]
		other := byKey[k]
		for _, hog := range s.topLevelHogsAt(cvar) {
			hx := cluster.NewVarSet(hog.XVars())
			sharedch := cluster.NewVarSet(other.Vars()).Intersect(hx)
			sharednh := cluster.NewVarSet(newcluster.Vars()).Intersect(hx)
			sharedh := sharedch.Union(sharednh)
			if len(sharedch) >= 1 && len(sharednh) >= 1 && len(sharedh) >= 2 {
				return true, s.mergeClusterHogCluster(other, hog, newcluster)
			}
		}
	}

	// merge with an angle, case 2: a hog at one of newcluster's own points
	// reaches into an overlapping cluster.
	for _, v := range newcluster.Vars() {
		for _, hog := range s.topLevelHogsAt(v) {
			hx := cluster.NewVarSet(hog.XVars())
			sharednh := cluster.NewVarSet(newcluster.Vars()).Intersect(hx)
			if len(sharednh) < 1 {
				continue
			}
			for _, k := range order {
				other := byKey[k]
				sharednc := overlap[k]
				assertf(len(sharednc) == 1, "searchMergeFromCluster case 2: expected exactly one shared var")
				if cluster.NewVarSet(other.Vars()).Contains(hog.CVar()) {
					continue
				}
				sharedch := cluster.NewVarSet(other.Vars()).Intersect(hx)
				sharedc := sharedch.Union(sharednc)
				if len(sharedch) >= 1 && len(sharedc) >= 2 {
					return true, s.mergeClusterClusterHog(newcluster, other, hog)
				}
			}
		}
	}

	// merge with an angle, case 3: a hog at a point of the overlapping
	// cluster reaches into newcluster.
	for _, k := range order {
		other := byKey[k]
		sharednc := overlap[k]
		assertf(len(sharednc) == 1, "searchMergeFromCluster case 3: expected exactly one shared var")
		for _, v := range other.Vars() {
			for _, hog := range s.topLevelHogsAt(v) {
				if cluster.NewVarSet(newcluster.Vars()).Contains(hog.CVar()) {
					continue
				}
				hx := cluster.NewVarSet(hog.XVars())
				sharedhc := cluster.NewVarSet(newcluster.Vars()).Intersect(hx)
				sharedhn := cluster.NewVarSet(other.Vars()).Intersect(hx)
				sharedh := sharedhn.Union(sharedhc)
				sharedc := sharedhc.Union(sharednc)
				if len(sharedhc) >= 1 && len(sharedhn) >= 1 && len(sharedh) >= 2 && len(sharedc) == 2 {
					return true, s.mergeClusterClusterHog(other, newcluster, hog)
				}
			}
		}
	}

	return false, nil
}

// searchMergeFromHog implements the CH, CHC and CCH rules triggered by a
// newly added hedgehog (spec §4.2.4).
func (s *Solver) searchMergeFromHog(hog *cluster.Hedgehog) (bool, error) {
	hx := cluster.NewVarSet(hog.XVars())

	var sharecx []*cluster.Rigid
	for _, c := range s.graph.ClustersWithVar(hog.CVar()) {
		r, ok := c.(*cluster.Rigid)
		if !ok || !s.graph.IsSink(r.Key()) {
			continue
		}
		if len(cluster.NewVarSet(r.Vars()).Intersect(hx)) >= 1 {
			sharecx = append(sharecx, r)
		}
	}
	sort.Slice(sharecx, func(i, j int) bool { return sharecx[i].Key() < sharecx[j].Key() })

	// case CH (overconstrained)
	for _, c := range sharecx {
		sharedcx := cluster.NewVarSet(c.Vars()).Intersect(hx)
		if len(sharedcx) == len(hog.XVars()) {
			return true, s.mergeClusterHog(c, hog)
		}
	}

	// case CHC
	if len(sharecx) >= 2 {
		return true, s.mergeClusterHogCluster(sharecx[0], hog, sharecx[1])
	}

	// case CCH
	sharexSet := make(map[string]*cluster.Rigid)
	for _, v := range hog.XVars() {
		for _, c := range s.graph.ClustersWithVar(v) {
			r, ok := c.(*cluster.Rigid)
			if !ok || !s.graph.IsSink(r.Key()) {
				continue
			}
			sharexSet[r.Key()] = r
		}
	}
	var sharex []*cluster.Rigid
	for _, r := range sharexSet {
		sharex = append(sharex, r)
	}
	sort.Slice(sharex, func(i, j int) bool { return sharex[i].Key() < sharex[j].Key() })

	for _, c1 := range sharecx {
		for _, c2 := range sharex {
			if c1.Key() == c2.Key() {
				continue
			}
			shared12 := cluster.NewVarSet(c1.Vars()).Intersect(cluster.NewVarSet(c2.Vars()))
			sharedh2 := hx.Intersect(cluster.NewVarSet(c2.Vars()))
			shared2 := shared12.Union(sharedh2)
			if len(shared12) >= 1 && len(sharedh2) >= 1 && len(shared2) == 2 {
				return true, s.mergeClusterClusterHog(c1, c2, hog)
			}
		}
	}
	return false, nil
}

// ---- balloon/cluster boundary merges (spec §4.2.1/§4.2.3) -----------------

func (s *Solver) searchBalloonClusterMergeFromCluster(r *cluster.Rigid) (bool, error) {
	shared := make(map[string]cluster.VarSet)
	byKey := make(map[string]*cluster.Balloon)
	for _, v := range r.Vars() {
		for _, c := range s.graph.ClustersWithVar(v) {
			b, ok := c.(*cluster.Balloon)
			if !ok || !s.graph.IsSink(b.Key()) {
				continue
			}
			if shared[b.Key()] == nil {
				shared[b.Key()] = cluster.NewVarSet(nil)
				byKey[b.Key()] = b
			}
			shared[b.Key()][v] = struct{}{}
		}
	}
	for k, vs := range shared {
		if len(vs) >= 2 {
			return true, s.mergeBalloonCluster(byKey[k], r)
		}
	}
	return false, nil
}

func (s *Solver) searchClusterFromBalloon(b *cluster.Balloon) (bool, error) {
	shared := make(map[string]cluster.VarSet)
	byKey := make(map[string]*cluster.Rigid)
	for _, v := range b.Vars() {
		for _, c := range s.graph.ClustersWithVar(v) {
			r, ok := c.(*cluster.Rigid)
			if !ok || !s.graph.IsSink(r.Key()) {
				continue
			}
			if shared[r.Key()] == nil {
				shared[r.Key()] = cluster.NewVarSet(nil)
				byKey[r.Key()] = r
			}
			shared[r.Key()][v] = struct{}{}
		}
	}
	for k, vs := range shared {
		if len(vs) >= 2 {
			return true, s.mergeBalloonCluster(b, byKey[k])
		}
	}
	return false, nil
}

func (s *Solver) searchBalloonFromBalloon(b *cluster.Balloon) (bool, error) {
	shared := make(map[string]cluster.VarSet)
	byKey := make(map[string]*cluster.Balloon)
	for _, v := range b.Vars() {
		for _, c := range s.graph.ClustersWithVar(v) {
			b2, ok := c.(*cluster.Balloon)
			if !ok || b2.Key() == b.Key() || !s.graph.IsSink(b2.Key()) {
				continue
			}
			if shared[b2.Key()] == nil {
				shared[b2.Key()] = cluster.NewVarSet(nil)
				byKey[b2.Key()] = b2
			}
			shared[b2.Key()][v] = struct{}{}
		}
	}
	for k, vs := range shared {
		if len(vs) >= 2 {
			return true, s.mergeBalloons(b, byKey[k])
		}
	}
	return false, nil
}

// ---- merge helpers with root-preferring frame selection --------------------

func (s *Solver) mergeClusterPairLikePoint(point, other *cluster.Rigid) error {
	allvars := cluster.NewVarSet(point.Vars()).Union(cluster.NewVarSet(other.Vars())).Slice()
	out, err := cluster.NewRigid(allvars)
	if err != nil {
		return err
	}
	m, err := method.NewMerge1C(point, other, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

func (s *Solver) mergeClusterPair(c1, c2 *cluster.Rigid) error {
	if s.ContainsRoot(c1) && s.ContainsRoot(c2) {
		return ErrTwoRootClusters
	}
	if s.ContainsRoot(c2) {
		return s.mergeClusterPair(c2, c1)
	}
	allvars := cluster.NewVarSet(c1.Vars()).Union(cluster.NewVarSet(c2.Vars())).Slice()
	out, err := cluster.NewRigid(allvars)
	if err != nil {
		return err
	}
	m, err := method.NewMerge2C(c1, c2, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

func (s *Solver) mergeClusterTriple(c1, c2, c3 *cluster.Rigid) error {
	if s.ContainsRoot(c2) {
		return s.mergeClusterTriple(c2, c1, c3)
	}
	if s.ContainsRoot(c3) {
		return s.mergeClusterTriple(c3, c1, c2)
	}
	allvars := cluster.NewVarSet(c1.Vars()).Union(cluster.NewVarSet(c2.Vars())).Union(cluster.NewVarSet(c3.Vars())).Slice()
	out, err := cluster.NewRigid(allvars)
	if err != nil {
		return err
	}
	m, err := method.NewMerge3C(c1, c2, c3, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

func (s *Solver) mergeClusterHogCluster(c1 *cluster.Rigid, hog *cluster.Hedgehog, c2 *cluster.Rigid) error {
	if s.ContainsRoot(c2) {
		return s.mergeClusterHogCluster(c2, hog, c1)
	}
	allvars := cluster.NewVarSet(c1.Vars()).Union(cluster.NewVarSet(c2.Vars()))
	hog, err := s.subHogIfNeeded(hog, allvars)
	if err != nil {
		return err
	}
	out, err := cluster.NewRigid(allvars.Slice())
	if err != nil {
		return err
	}
	m, err := method.NewMergeCHC(c1, hog, c2, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

func (s *Solver) mergeClusterClusterHog(c1, c2 *cluster.Rigid, hog *cluster.Hedgehog) error {
	if s.ContainsRoot(c1) && s.ContainsRoot(c2) {
		return ErrTwoRootClusters
	}
	if s.ContainsRoot(c2) {
		return s.mergeClusterClusterHog(c2, c1, hog)
	}
	allvars := cluster.NewVarSet(c1.Vars()).Union(cluster.NewVarSet(c2.Vars()))
	hog, err := s.subHogIfNeeded(hog, allvars)
	if err != nil {
		return err
	}
	out, err := cluster.NewRigid(allvars.Slice())
	if err != nil {
		return err
	}
	m, err := method.NewMergeCCH(c1, c2, hog, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

// subHogIfNeeded restricts hog down to the spokes allvars actually contains,
// deriving a SubHog method when that's a strict restriction (spec §4.2.2).
func (s *Solver) subHogIfNeeded(hog *cluster.Hedgehog, allvars cluster.VarSet) (*cluster.Hedgehog, error) {
	xvars := cluster.NewVarSet(hog.XVars()).Intersect(allvars)
	if len(xvars) == len(hog.XVars()) {
		return hog, nil
	}
	return s.deriveSubHog(hog, xvars)
}

func (s *Solver) deriveSubHog(hog *cluster.Hedgehog, xvars cluster.VarSet) (*cluster.Hedgehog, error) {
	sub, err := cluster.NewHedgehog(hog.CVar(), xvars.Slice())
	if err != nil {
		return nil, err
	}
	if sub.Key() == hog.Key() {
		// no actual restriction: the requested spokes are all of them.
		return hog, nil
	}
	if s.graph.HasCluster(sub.Key()) {
		// this restriction was already derived along another search path.
		return sub, nil
	}
	m, err := method.NewSubHog(hog, sub)
	if err != nil {
		return nil, err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return nil, err
	}
	if err := s.addDeriveOutput(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Solver) mergeBalloons(b1, b2 *cluster.Balloon) error {
	allvars := cluster.NewVarSet(b1.Vars()).Union(cluster.NewVarSet(b2.Vars())).Slice()
	out, err := cluster.NewBalloon(allvars)
	if err != nil {
		return err
	}
	m, err := method.NewBalloonMerge(b1, b2, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

func (s *Solver) mergeBalloonCluster(balloon *cluster.Balloon, c *cluster.Rigid) error {
	allvars := cluster.NewVarSet(balloon.Vars()).Union(cluster.NewVarSet(c.Vars())).Slice()
	out, err := cluster.NewRigid(allvars)
	if err != nil {
		return err
	}
	m, err := method.NewBalloonRigidMerge(balloon, c, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}
