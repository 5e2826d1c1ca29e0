// Copyright 2025 Poiesic Systems
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


// Package index turns keyword slugs into searchable entries.
//
// A slug such as "Hamiltonian_%28quantum_mechanics%29" becomes an entry with
// the display name "Hamiltonian (quantum mechanics)" and the token set
// {hamiltonian, quantum, mechanics}. Tokens are maximal runs of ASCII letters
// and digits; there is no stemming or stop-word removal.
//
// The Index type holds entries in memory and is immutable once built, so a
// single Index can serve any number of concurrent searches. Anything that
// implements Source can be searched, including the BadgerDB repository in
// storage/badger.
package index
