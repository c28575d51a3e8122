// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// 📊 DiffStat counts the lines added and removed between before and after.
// Lines are mapped to runes so the diff runs line by line.
func DiffStat(before, after []byte) (added, removed int) {
	if string(before) == string(after) {
		return 0, 0
	}
	dmp := diffmatchpatch.New()
	a, b, _ := dmp.DiffLinesToRunes(string(before), string(after))
	for _, d := range dmp.DiffMainRunes(a, b, false) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += utf8.RuneCountInString(d.Text)
		}
	}
	return added, removed
}
