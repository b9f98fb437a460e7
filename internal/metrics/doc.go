// Package metrics records batch and stage outcomes in a private Prometheus
// registry and can flush them to a node_exporter textfile.
//
// vidnotes is a short-lived CLI, so nothing is served over HTTP; the
// textfile collector picks the file up between runs.
package metrics
