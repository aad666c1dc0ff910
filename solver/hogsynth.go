package solver

import (
	"github.com/Dave4675/geosolver/cluster"
	"github.com/Dave4675/geosolver/method"
)

// makeHogFromCluster derives a hedgehog at cvar spanning every other point
// of r, registering it as a derive-class output (spec §4.2.2).
func (s *Solver) makeHogFromCluster(cvar cluster.Var, r *cluster.Rigid) (*cluster.Hedgehog, error) {
	xvars := cluster.NewVarSet(r.Vars())
	delete(xvars, cvar)
	hog, err := cluster.NewHedgehog(cvar, xvars.Slice())
	if err != nil {
		return nil, err
	}
	m, err := method.NewRigid2Hog(r, hog)
	if err != nil {
		return nil, err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return nil, err
	}
	if err := s.addDeriveOutput(hog); err != nil {
		return nil, err
	}
	return hog, nil
}

func (s *Solver) makeHogFromBalloon(cvar cluster.Var, b *cluster.Balloon) (*cluster.Hedgehog, error) {
	xvars := cluster.NewVarSet(b.Vars())
	delete(xvars, cvar)
	hog, err := cluster.NewHedgehog(cvar, xvars.Slice())
	if err != nil {
		return nil, err
	}
	m, err := method.NewBalloon2Hog(b, hog)
	if err != nil {
		return nil, err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return nil, err
	}
	if err := s.addDeriveOutput(hog); err != nil {
		return nil, err
	}
	return hog, nil
}

// mergeHogs merges hog1 and hog2 into a hedgehog spanning their spoke union
// (spec §4.2.5), returning the merged hog for further chaining.
func (s *Solver) mergeHogs(hog1, hog2 *cluster.Hedgehog) (*cluster.Hedgehog, error) {
	xvars := cluster.NewVarSet(hog1.XVars()).Union(cluster.NewVarSet(hog2.XVars()))
	merged, err := cluster.NewHedgehog(hog1.CVar(), xvars.Slice())
	if err != nil {
		return nil, err
	}
	m, err := method.NewMergeHogs(hog1, hog2, merged)
	if err != nil {
		return nil, err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return nil, err
	}
	if err := s.addMergeOutput(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// makeBalloon derives the sub-hogs needed and combines two hedgehogs with
// distinct centers into a 3-point balloon (spec §4.2.4 "BalloonFromHogs").
func (s *Solver) makeBalloon(v1, v2, v3 cluster.Var, hog1, hog2 *cluster.Hedgehog) error {
	vars := cluster.NewVarSet([]cluster.Var{v1, v2, v3})
	var err error
	if len(hog1.XVars()) > 2 {
		hog1, err = s.deriveSubHog(hog1, vars.Intersect(cluster.NewVarSet(hog1.XVars())))
		if err != nil {
			return err
		}
	}
	if len(hog2.XVars()) > 2 {
		hog2, err = s.deriveSubHog(hog2, vars.Intersect(cluster.NewVarSet(hog2.XVars())))
		if err != nil {
			return err
		}
	}
	out, err := cluster.NewBalloon(vars.Slice())
	if err != nil {
		return err
	}
	m, err := method.NewBalloonFromHogs(hog1, hog2, out)
	if err != nil {
		return err
	}
	if _, err := s.addMethodNode(m); err != nil {
		return err
	}
	return s.addMergeOutput(out)
}

// searchBalloonFromHog looks for a pair of hedgehogs with different centers
// that, together, pin down a triangle's three angles, and synthesizes a
// balloon from each such pair found (spec §4.2.5).
func (s *Solver) searchBalloonFromHog(hog *cluster.Hedgehog) (bool, error) {
	v1 := hog.CVar()
	fired := false
	for _, v2 := range hog.XVars() {
		for _, hog2 := range s.topLevelHogsAt(v2) {
			if !cluster.NewVarSet(hog2.XVars()).Contains(v1) {
				continue
			}
			for _, v3 := range hog2.XVars() {
				if v3 == v2 || !cluster.NewVarSet(hog.XVars()).Contains(v3) {
					continue
				}
				candidate, err := cluster.NewBalloon([]cluster.Var{v1, v2, v3})
				if err != nil {
					return fired, err
				}
				if s.graph.HasCluster(candidate.Key()) {
					continue
				}
				if err := s.makeBalloon(v1, v2, v3, hog, hog2); err != nil {
					return fired, err
				}
				fired = true
			}
		}
	}
	return fired, nil
}

// searchHogsFromCluster and searchHogsFromBalloon are the terminal rules of
// their respective chains (spec §4.2.5 "Hedgehog synthesis"): for every
// point of the new cluster, derive the hedgehog centered there that spans
// every other point, and merge it into any existing overlapping hedgehog.

func (s *Solver) searchHogsFromCluster(r *cluster.Rigid) error {
	if len(r.Vars()) <= 2 {
		return nil
	}
	for _, cvar := range r.Vars() {
		xvars := cluster.NewVarSet(r.Vars())
		delete(xvars, cvar)
		for _, hog := range s.topLevelHogsAt(cvar) {
			shared := cluster.NewVarSet(hog.XVars()).Intersect(xvars)
			if len(shared) < 1 || len(shared) >= len(hog.XVars()) || len(shared) >= len(xvars) {
				continue
			}
			candidate, err := cluster.NewHedgehog(cvar, xvars.Slice())
			if err != nil {
				return err
			}
			if s.graph.HasCluster(candidate.Key()) {
				continue
			}
			newhog, err := s.makeHogFromCluster(cvar, r)
			if err != nil {
				return err
			}
			if _, err := s.mergeHogs(hog, newhog); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Solver) searchHogsFromBalloon(b *cluster.Balloon) error {
	if len(b.Vars()) <= 2 {
		return nil
	}
	for _, cvar := range b.Vars() {
		xvars := cluster.NewVarSet(b.Vars())
		delete(xvars, cvar)
		for _, hog := range s.topLevelHogsAt(cvar) {
			shared := cluster.NewVarSet(hog.XVars()).Intersect(xvars)
			if len(shared) < 1 || len(shared) >= len(hog.XVars()) || len(shared) >= len(xvars) {
				continue
			}
			candidate, err := cluster.NewHedgehog(cvar, xvars.Slice())
			if err != nil {
				return err
			}
			if s.graph.HasCluster(candidate.Key()) {
				continue
			}
			newhog, err := s.makeHogFromBalloon(cvar, b)
			if err != nil {
				return err
			}
			if _, err := s.mergeHogs(hog, newhog); err != nil {
				return err
			}
		}
	}
	return nil
}

// searchHogsFromHog folds every compatible overlapping hedgehog, rigid- or
// balloon-derived hog, into newhog in turn (spec §4.2.5).
func (s *Solver) searchHogsFromHog(newhog *cluster.Hedgehog) error {
	cvar := newhog.CVar()
	nx := cluster.NewVarSet(newhog.XVars())

	var tomerge []*cluster.Hedgehog

	for _, c := range s.graph.ClustersWithVar(cvar) {
		if !s.graph.IsSink(c.Key()) {
			continue
		}
		switch r := c.(type) {
		case *cluster.Rigid:
			if len(r.Vars()) < 3 {
				continue
			}
			xvars := cluster.NewVarSet(r.Vars())
			delete(xvars, cvar)
			shared := nx.Intersect(xvars)
			if len(shared) < 1 || len(shared) >= len(xvars) || len(shared) >= len(nx) {
				continue
			}
			candidate, err := cluster.NewHedgehog(cvar, xvars.Slice())
			if err != nil {
				return err
			}
			if s.graph.HasCluster(candidate.Key()) {
				continue
			}
			nn, err := s.makeHogFromCluster(cvar, r)
			if err != nil {
				return err
			}
			tomerge = append(tomerge, nn)
		case *cluster.Balloon:
			xvars := cluster.NewVarSet(r.Vars())
			delete(xvars, cvar)
			shared := nx.Intersect(xvars)
			if len(shared) < 1 || len(shared) >= len(xvars) || len(shared) >= len(nx) {
				continue
			}
			candidate, err := cluster.NewHedgehog(cvar, xvars.Slice())
			if err != nil {
				return err
			}
			if s.graph.HasCluster(candidate.Key()) {
				continue
			}
			nn, err := s.makeHogFromBalloon(cvar, r)
			if err != nil {
				return err
			}
			tomerge = append(tomerge, nn)
		}
	}

	for _, hog := range s.topLevelHogsAt(cvar) {
		if hog.Key() == newhog.Key() {
			continue
		}
		shared := nx.Intersect(cluster.NewVarSet(hog.XVars()))
		if len(shared) >= 1 && len(shared) < len(hog.XVars()) && len(shared) < len(nx) {
			tomerge = append(tomerge, hog)
		}
	}

	last := newhog
	for _, hog := range tomerge {
		merged, err := s.mergeHogs(last, hog)
		if err != nil {
			return err
		}
		last = merged
	}
	return nil
}
