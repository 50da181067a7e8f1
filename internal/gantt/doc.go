// Package gantt turns a flat task list into a pixel-accurate timeline layout.
//
// Every function here is pure: a Layout is fully determined by the tasks,
// the date window inputs, the zoom level and the expansion state. The
// package never performs I/O and never returns errors for bad task data;
// rows and edges it cannot place are omitted.
//
// Pipeline: ResolveWindow -> NewMapper -> {BuildHeader, VisibleRows ->
// BuildBars -> RouteDependencies}. Compute runs all of it; Memo caches
// Compute results.
package gantt
