// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import "github.com/consensys/linopt/debug"

// debugChecks gates the invariant walks so they compile out of release
// builds; cheap precondition asserts call internal/debug.Assert directly.
const debugChecks = debug.Debug
