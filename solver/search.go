package solver

import (
	"fmt"

	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/method"
)

// search dispatches on newcluster's variant and tries its fixed priority
// rule chain (spec §4.2). The first rule that fires stops the chain; later
// rules run naturally once their own preconditions arise from later
// additions (spec §9's first Open Question; see Saturate for the explicit
// confluence pass).
func (s *Solver) search(newcluster cluster.Cluster) error {
	switch c := newcluster.(type) {
	case *cluster.Rigid:
		return s.searchFromRigid(c)
	case *cluster.Hedgehog:
		return s.searchFromHog(c)
	case *cluster.Balloon:
		return s.searchFromBalloon(c)
	default:
		return fmt.Errorf("solver: don't know how to search from %s", newcluster)
	}
}

func (s *Solver) searchFromRigid(r *cluster.Rigid) error {
	fired, err := s.searchAbsorbFromCluster(r)
	if err != nil || fired {
		return err
	}
	fired, err = s.searchBalloonClusterMergeFromCluster(r)
	if err != nil || fired {
		return err
	}
	fired, err = s.searchMergeFromCluster(r)
	if err != nil || fired {
		return err
	}
	return s.searchHogsFromCluster(r)
}

func (s *Solver) searchFromHog(h *cluster.Hedgehog) error {
	fired, err := s.searchAbsorbFromHog(h)
	if err != nil || fired {
		return err
	}
	fired, err = s.searchMergeFromHog(h)
	if err != nil || fired {
		return err
	}
	fired, err = s.searchBalloonFromHog(h)
	if err != nil || fired {
		return err
	}
	return s.searchHogsFromHog(h)
}

func (s *Solver) searchFromBalloon(b *cluster.Balloon) error {
	fired, err := s.searchAbsorbFromBalloon(b)
	if err != nil || fired {
		return err
	}
	fired, err = s.searchBalloonFromBalloon(b)
	if err != nil || fired {
		return err
	}
	fired, err = s.searchClusterFromBalloon(b)
	if err != nil || fired {
		return err
	}
	return s.searchHogsFromBalloon(b)
}

// ---- Absorb-hog rules (spec §4.2.1 rule 1, §4.2.2 rule 1, §4.2.3 rule 1) --

func (s *Solver) topLevelHogsAt(cvar cluster.Var) []*cluster.Hedgehog {
	var out []*cluster.Hedgehog
	for _, c := range s.graph.ClustersWithVar(cvar) {
		h, ok := c.(*cluster.Hedgehog)
		if !ok || h.CVar() != cvar || !s.graph.IsSink(h.Key()) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (s *Solver) searchAbsorbFromCluster(r *cluster.Rigid) (bool, error) {
	rvars := cluster.NewVarSet(r.Vars())
	for _, cvar := range r.Vars() {
		for _, hog := range s.topLevelHogsAt(cvar) {
			if cluster.NewVarSet(hog.XVars()).SubsetOf(rvars) {
				return true, s.mergeClusterHog(r, hog)
			}
		}
	}
	return false, nil
}

func (s *Solver) searchAbsorbFromBalloon(b *cluster.Balloon) (bool, error) {
	bvars := cluster.NewVarSet(b.Vars())
	for _, cvar := range b.Vars() {
		for _, hog := range s.topLevelHogsAt(cvar) {
			if cluster.NewVarSet(hog.XVars()).SubsetOf(bvars) {
				return true, s.mergeBalloonHog(b, hog)
			}
		}
	}
	return false, nil
}

func (s *Solver) searchAbsorbFromHog(h *cluster.Hedgehog) (bool, error) {
	hx := cluster.NewVarSet(h.XVars())
	deps := s.graph.ClustersWithVar(h.CVar())

	for _, c := range deps {
		b, ok := c.(*cluster.Balloon)
		if !ok || !s.graph.IsSink(b.Key()) {
			continue
		}
		bvars := cluster.NewVarSet(b.Vars())
		if hx.Intersect(bvars).SubsetOf(hx) && hx.SubsetOf(bvars) {
			return true, s.mergeBalloonHog(b, h)
		}
	}
	for _, c := range deps {
		r, ok := c.(*cluster.Rigid)
		if !ok || !s.graph.IsSink(r.Key()) {
			continue
		}
		rvars := cluster.NewVarSet(r.Vars())
		if hx.SubsetOf(rvars) {
			return true, s.mergeClusterHog(r, h)
		}
	}
	return false, nil
}

// ---- merge/derivation helpers (spec §4.2.4) --------------------------------

func (s *Solver) mergeClusterHog(r *cluster.Rigid, hog *cluster.Hedgehog) error {
	out, err := cluster.NewRigid(r.Vars())
	if err != nil {
		return err
	}
	m, err := method.NewMergeCH(r, hog, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

func (s *Solver) mergeBalloonHog(b *cluster.Balloon, hog *cluster.Hedgehog) error {
	out, err := cluster.NewBalloon(b.Vars())
	if err != nil {
		return err
	}
	m, err := method.NewMergeBH(b, hog, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}
