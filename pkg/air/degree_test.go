// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package air_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xPolygonMiden/airscript-go/pkg/air"
)

func TestIntegrityConstraintDegreeEqualsIgnoresCycleOrder(t *testing.T) {
	a := air.IntegrityConstraintDegree{Base: 2, Cycles: []uint{4, 8}}
	b := air.IntegrityConstraintDegree{Base: 2, Cycles: []uint{8, 4}}
	c := air.IntegrityConstraintDegree{Base: 2, Cycles: []uint{4}}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
