/*
Package clusterstore provides reference implementations of
scheduler.Store: the authoritative record of fleet state the Node
Filter reads from and the Decision Binder commits increments against.

Two implementations are provided:

MemStore is a single-process, mutex-protected map, suitable for tests
and for a scheduler replica that does not need to survive a restart or
coordinate with peers.

RaftStore replicates fleet state across a cluster of scheduler
replicas using hashicorp/raft, with a BoltDB-backed FSM so state
survives a process restart. TryIncrementLoad is submitted as a Raft log
entry, so it is linearized across every replica the same way a single
in-process mutex would linearize it for MemStore — no replica can
observe a different outcome for the same increment.

# Choosing Between Them

A single scheduler instance backing a test harness, or a scheduler
running without HA requirements, uses MemStore. A fleet scheduler that
must survive a leader failing over to a follower uses RaftStore.
*/
package clusterstore
