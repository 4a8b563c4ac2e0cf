package event

/*
Event schema versioning
=======================

Outbox rows outlive deployments, so a payload written months ago may not
match the current struct for its event type. The versioning layer upgrades
old payloads transparently during deserialization, and the migrate CLI can
rewrite them in place.

How it fits together
--------------------

  - BaseDomainEvent carries a schema_version field, serialized with the
    payload. Payloads without the field count as version 1.
  - EventUpgrader rewrites a payload one version step (vN -> vN+1).
    Multi-version gaps are closed by chaining upgraders.
  - VersionRegistry holds the per-type config: current version, the
    upgrader chain, and a prototype struct per version.
  - VersionedSerializer is a drop-in replacement for EventSerializer that
    runs the chain before unmarshalling.
  - EventMigrator batch-upgrades stored payloads; `migrate events
    analyze|upgrade <type>` drives it against the outbox table.

Evolving a schema
-----------------

The OrderPaid v1 -> v2 rename is the live example. v1 serialized the
charged amount as "amount"; v2 calls it "total". The registration in
event_registry.go:

	var upgraders CommonUpgraders
	serializer.RegisterVersioned(
	    order.EventTypeOrderPaid,
	    2,
	    map[int]shared.DomainEvent{
	        2: &order.OrderPaidEvent{},
	    },
	    upgraders.RenameField(1, "amount", "total"),
	)

CommonUpgraders covers the routine cases (AddField, RemoveField,
RenameField, TransformField, WrapInObject, UnwrapFromObject); anything
else gets a hand-written NewBaseEventUpgrader with a map transform.

Rules that keep this safe:

 1. Bump the version for any rename, removal, type change, or new
    required field. Purely additive optional fields can stay.
 2. One upgrader per version step, deterministic, tolerant of missing
    fields.
 3. Deploy the upgrader before producing events at the new version, then
    run `migrate events upgrade <type>` for the stored backlog.
 4. Never rename an event type. Routing is by type name; a renamed type
    is a new type.

Failure behavior
----------------

Unknown event types and upgrader gaps surface as errors before anything
is touched (ValidateUpgradeChain runs first in the CLI). A payload that
fails mid-chain is left at its original version; MigrationResult collects
the failures instead of aborting the batch. Unparseable JSON extracts as
version 1, which then fails loudly in the v1 upgrader rather than being
silently skipped.
*/
