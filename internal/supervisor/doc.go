// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

/*
Package supervisor provides process supervision for Shopgraph using suture v4.

Long-running services are organized into a two-layer tree for failure
isolation:

	RootSupervisor ("shopgraph")
	├── FeedSupervisor ("feed-layer")
	│   ├── feed.Hub
	│   └── feed.Consumer
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the activity feed pipeline restarts only that layer; the HTTP
API keeps serving ingestion and analytics requests. Crashed services are
restarted with suture's exponential backoff, and supervisor events are
logged through sutureslog into the application's zerolog output.
*/
package supervisor
