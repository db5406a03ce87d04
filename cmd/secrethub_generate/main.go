// Command secrethub_generate is the Ansible binary module that generates a
// random secret.
package main

import (
	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/modules/genmodule"
)

func main() {
	ansible.Run(genmodule.New())
}
