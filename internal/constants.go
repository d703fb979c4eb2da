/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent       = "swisstd/0.3.0 (+https://github.com/mikeb26/swisstd)"
	DefaultCacheTTL = "24h"
	ByeDisplayName  = "BYE"
)
