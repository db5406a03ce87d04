// Command secrethub_read is the Ansible binary module that reads a secret.
package main

import (
	"github.com/secrethub/ansible-secrethub/internal/ansible"
	"github.com/secrethub/ansible-secrethub/internal/modules/readmodule"
)

func main() {
	ansible.Run(readmodule.New())
}
