// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface and registers its routes on
// Load. The Manager keeps the registry and loads the enabled features in
// registration order.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(report.NewFeature(repo, vm, logger))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
