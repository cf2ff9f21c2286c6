// Package server runs the interactive histogram demo over HTTP.
//
// Every visitor gets a session holding a mounted histogram and a random
// data generator. The page inlines the chart SVG next to a "Generate new
// data" button; pressing it replaces the dataset, which runs the chart's
// full measure-and-adjust cycle. Bar transitions are recorded as SMIL
// keyframes, so the browser replays them without any script.
//
// # Routes
//
//   - GET  /           demo page
//   - POST /generate   replace the dataset, then redirect to /
//   - GET  /chart.svg  the current chart
//   - GET  /chart.json the committed layout
//   - GET  /healthz    build information and session count
package server
