// Package plan resolves mapping requests into a graph of conversion pairs.
//
// Resolution runs a FIFO worklist seeded with the declared requests:
//  1. every declared pair is registered before the first one is processed,
//     so a declared pair keeps its customizations even when it is also
//     reached through another pair;
//  2. each popped pair is classified (object, enum, collection, dictionary,
//     user supplied) and resolved member by member;
//  3. member, element, key and value types that differ and can be converted
//     queue further pairs, which are memoized by PairKey so cycles terminate;
//  4. pairs asking for a reverse mapping queue the derived inverse request.
//
// Problems are recorded in the plan's Diagnostics. A pair with errors stays
// in the plan as invalid and is emitted as a placeholder routine.
package plan
